/*
Package ports defines the driven ports (interfaces) of the editor.

These interfaces decouple the editing core from external implementations,
allowing documents to live on disk, in memory or in Redis.

# Key Interfaces

  - DocumentStore: Responsible for loading and persisting model documents.
  - DistributedLocker: Provides distributed locking so that two replicas never edit the same document at once.
*/
package ports
