// Package session tracks streaming sessions.
//
// A session lives from the moment a streaming connection opens until the client
// aborts it. Store implementations must make single-key Put/Get/Delete atomic;
// no multi-key transactions are required. MemoryStore keeps sessions in process
// memory (lost on restart); RedisStore shares them across replicas.
package session
