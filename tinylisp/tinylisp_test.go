package tinylisp

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Run(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		expect string
	}{
		{name: "integer addition", input: "(+ 1 2)", expect: "3"},
		{name: "float addition", input: "(+ 1 0.5)", expect: "1.5"},
		{name: "string concat", input: `(. "foo" "bar")`, expect: "foobar"},
		{name: "nested expression", input: "(+ 1 (+ 2 3))", expect: "6"},
		{name: "bare atom", input: "42", expect: "42"},
	}

	ev := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ev.Run(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.expect, got)
		})
	}
}

func Test_Run_Strftime(t *testing.T) {
	assert := assert.New(t)

	ev := New()
	got, err := ev.Run(`(strftime (current-datetime) "%Y-%m-%d")`)
	require.NoError(t, err)

	now := time.Now()
	want := fmt.Sprintf("%04d-%02d-%02d", now.Year(), int(now.Month()), now.Day())
	assert.Equal(want, got)
}

func Test_Run_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		input string
	}{
		{name: "unbound symbol", input: "(frobnicate 1)"},
		{name: "unterminated list", input: "(+ 1 2"},
		{name: "stray close paren", input: ")"},
		{name: "calling a non-function", input: "(1 2)"},
		{name: "adding a string", input: `(+ 1 "x")`},
		{name: "empty input", input: ""},
	}

	ev := New()
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ev.Run(tc.input)
			assert.Error(t, err)
		})
	}
}

func Test_strftime_Directives(t *testing.T) {
	at := time.Date(2021, time.March, 7, 9, 5, 2, 0, time.UTC)

	testCases := []struct {
		name   string
		format string
		expect string
	}{
		{name: "date", format: "%Y-%m-%d", expect: "2021-03-07"},
		{name: "time", format: "%H:%M:%S", expect: "09:05:02"},
		{name: "two digit year", format: "%y", expect: "21"},
		{name: "literal percent", format: "100%%", expect: "100%"},
		{name: "unknown directive passes through", format: "%Q", expect: "%Q"},
		{name: "trailing percent", format: "x%", expect: "x%"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expect, strftime(at, tc.format))
		})
	}
}
