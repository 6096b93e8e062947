/*
Package types defines dnsvet's information model. Which is rather simple and
revolves around [Candidate] nameserver list entries, their liveness [Status],
and [Verdict] values pairing the two.

A [Candidate] keeps the verbatim input line alongside the extracted address:
dnsvet's whole job is to emit surviving lines exactly as they were read, so
the raw line is the payload and the address merely the probing handle.

Verdicts are plain immutable values. As verdicts get passed around through
channels between concurrent pipeline stages, value semantics with the
[Verdict.WithStatus] deriving-copy idiom avoids a locking mess as well as
tons of subtle aliasing bugs.
*/
package types
