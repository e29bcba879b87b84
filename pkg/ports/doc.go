/*
Package ports defines the driven ports (interfaces) of the assistant.

These interfaces decouple the conversation flow from external implementations,
letting the same graph run against in-memory fixtures, Redis persistence, or
real backing services.

# Key Interfaces

  - StateStore: persists session state for durable, resumable threads.
  - DistributedLocker: coordinates concurrent access across replicas.
  - CustomerDirectory, OTPVerifier, SiteTelemetry, ProposalCatalog,
    AgentPresence: the business data collaborators the flow nodes consult.
*/
package ports
