// Package mrytest provides helpers for running a complete application in
// tests with a controlled block clock.
package mrytest
