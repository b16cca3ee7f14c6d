// Package provision turns roster targets into configured GitHub
// repositories. Every target walks the same pipeline: copy the
// template, wait for the background copy to finish, add members with
// push access, and lock the default branch against force-pushes and
// deletion.
//
// Targets are processed by a bounded worker pool and failures stay
// isolated: a broken target is recorded and skipped past, never
// aborting the rest of the run. The final report carries exactly one
// result per roster entry, in roster order.
//
// UnprotectAll runs the reverse of the final stage over the same pool,
// removing branch protection at end of term so students keep full
// control of their repositories.
package provision
