// Package gate evaluates whether a blueprint is feasible under an operational
// risk policy. It never rejects by itself: it returns the full list of
// violations, graded info, warn or error, and the caller decides whether to
// proceed past warnings. Only error-level findings make a result not OK.
package gate
