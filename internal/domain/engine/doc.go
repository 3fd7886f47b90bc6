// Package engine implements the cognitive metrics calculators: recovery
// decay and gain, skill inactivity decay, the derived Sharpness/Readiness
// scores, Reasoning Quality, the Synthesized Cognitive Index, and the daily
// snapshot transition rules.
//
// Everything in this package is a pure function of its inputs and a *Params;
// nothing here touches storage or the clock. That keeps the calculators safe
// to run concurrently across sessions and makes re-computation idempotent —
// decay is a function of elapsed time, never an accumulator.
package engine
