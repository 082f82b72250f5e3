/*
Package ports defines the driven ports (interfaces) of the synchronizer.

These interfaces decouple the driver from the remote map service, so the same loop
can run against the live API, a local stand-in, or an in-memory recorder.

# Key Interfaces

  - GoalSource: Produces the target grid (fixed pattern, remote goal, or local file).
  - Dispatcher: Delivers one entity-creation request, retrying transient failures.
  - DistributedLocker: Keeps two processes from synchronizing the same map at once.
*/
package ports
