// Package health provides request-time liveness and readiness probes
// for the public and admin listeners, plus the shutdown gate that
// flips readiness during drain.
package health
