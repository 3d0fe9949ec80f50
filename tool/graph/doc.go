// Package graph implements the node/edge tools of the gateway over a pluggable Store.
package graph
