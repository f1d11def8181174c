package site

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScripts_RequireIsIdempotent(t *testing.T) {
	var s Scripts
	assert.True(t, s.Require(Script{Src: "https://checkout.razorpay.com/v1/checkout.js", Async: true}))
	assert.False(t, s.Require(Script{Src: "https://checkout.razorpay.com/v1/checkout.js"}))
	assert.True(t, s.Require(Script{Src: "/static/js/app.js", Defer: true}))
	assert.False(t, s.Require(Script{}))

	assert.Equal(t, []Script{
		{Src: "https://checkout.razorpay.com/v1/checkout.js", Async: true},
		{Src: "/static/js/app.js", Defer: true},
	}, s.List())
}
