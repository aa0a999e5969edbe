// Package storage keeps the till (the denominations the service gives change
// from) in memory and dispenses from it atomically.
package storage
