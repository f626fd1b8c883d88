package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/malusev998/currency-calc"
)

var (
	ErrStaleResult = errors.New("conversion result is stale")
)

// Converter drives one caller's conversions: it validates input, tracks the
// loading flag and the displayed result, and records successful conversions
// in the history log.
//
// Every request and every Invalidate bumps a sequence number. A response
// whose sequence is no longer the latest is returned with ErrStaleResult and
// leaves the displayed state untouched.
type Converter struct {
	Conversion currency.Conversion
	History    currency.History
	Clock      func() time.Time
	Logger     zerolog.Logger

	mu       sync.Mutex
	sequence uint64
	loading  bool
	current  currency.ConversionResult
}

func NewConverter(conversion currency.Conversion, history currency.History, logger zerolog.Logger) *Converter {
	return &Converter{
		Conversion: conversion,
		History:    history,
		Clock:      time.Now,
		Logger:     logger.With().Str("component", "converter").Logger(),
	}
}

func (c *Converter) now() time.Time {
	if c.Clock == nil {
		return time.Now()
	}

	return c.Clock()
}

func (c *Converter) reject(err error) (currency.ConversionResult, error) {
	result := currency.Failed(err)

	c.mu.Lock()
	c.sequence++
	c.loading = false
	c.current = result
	c.mu.Unlock()

	return result, err
}

func (c *Converter) Convert(ctx context.Context, amount, from, to string) (currency.ConversionResult, error) {
	if _, err := currency.ParseAmount(amount); err != nil {
		return c.reject(err)
	}

	if err := currency.ValidateCode(from); err != nil {
		return c.reject(err)
	}

	if err := currency.ValidateCode(to); err != nil {
		return c.reject(err)
	}

	req := currency.NewConversionRequest(amount, from, to)
	logger := c.Logger.With().Str("request_id", req.ID.String()).Logger()

	c.mu.Lock()
	c.sequence++
	seq := c.sequence
	c.loading = true
	c.current = currency.ConversionResult{}
	c.mu.Unlock()

	logger.Debug().Str("from", from).Str("to", to).Str("amount", amount).Msg("conversion requested")

	result := c.Conversion.Convert(ctx, from, to, amount)

	if result.Succeeded() && c.History != nil {
		c.History.Append(ctx, currency.NewHistoryEntry(req, result.Result, c.now()))
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if seq != c.sequence {
		logger.Debug().Uint64("sequence", seq).Uint64("latest", c.sequence).Msg("discarding stale conversion result")
		return result, ErrStaleResult
	}

	c.loading = false
	c.current = result

	return result, nil
}

// Invalidate clears the displayed result. Responses to requests issued
// before the call become stale.
func (c *Converter) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.sequence++
	c.loading = false
	c.current = currency.ConversionResult{}
}

func (c *Converter) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.loading
}

func (c *Converter) Current() currency.ConversionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}
