/*
Package domain contains the core types of megaverse.

It defines the goal Grid, the per-cell Intent decided by the interpreter, and the
CreationRequest handed to a dispatcher. This package is kept pure and free of I/O.

# Key Entities

  - Grid: The rectangular target layout, read-only once fetched.
  - Intent: A closed variant (NoEntity, SimpleEntity, AttributedEntity) for one cell.
  - CreationRequest: The wire payload for one entity-creation call.
  - LifecycleHooks: Observability callbacks fired by the driver and dispatchers.
*/
package domain
