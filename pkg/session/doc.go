/*
Package session serializes access to stored documents.

Edits are read-modify-write cycles: load the text, apply a plan, save the
result. The Manager runs each cycle while holding a per-document lock, in
process through reference-counted mutexes and, when a distributed locker is
configured, across replicas sharing the same store.
*/
package session
