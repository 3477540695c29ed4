// SPDX-License-Identifier: ISC

// Package kv pairs a key buffer.Bytes with a value buffer.Bytes, with an
// Invalid sentinel standing in for "no such entry".
package kv
