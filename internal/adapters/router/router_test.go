package router

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouter_Navigate(t *testing.T) {
	r := New(Options{Initial: "/login"})
	assert.Equal(t, "/login", r.CurrentRoute())

	r.Navigate("main")
	assert.Equal(t, "/main", r.CurrentRoute())

	r.Navigate("/main")
	assert.Equal(t, []string{"/login", "/main"}, r.History())
}

func TestRouter_Defaults(t *testing.T) {
	r := New(Options{})
	assert.Equal(t, "/", r.CurrentRoute())

	r.Navigate("  ")
	assert.Equal(t, []string{"/"}, r.History())
}

func TestRouter_HistoryBounded(t *testing.T) {
	r := New(Options{HistoryLimit: 2})
	r.Navigate("/a")
	r.Navigate("/b")
	r.Navigate("/c")

	assert.Equal(t, []string{"/b", "/c"}, r.History())
	assert.Equal(t, "/c", r.CurrentRoute())
}
