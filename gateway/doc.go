// Package gateway wires configuration, stores, tools and transports into a runnable gateway process.
package gateway
