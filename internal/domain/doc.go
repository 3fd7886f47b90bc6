// Package domain contains the core business entities and value objects of
// the cognitive metrics engine: per-user skill and recovery state, daily
// snapshots, intraday events, and activity records. It is independent of any
// specific infrastructure or delivery mechanism.
package domain
