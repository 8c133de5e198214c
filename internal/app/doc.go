// Package app wires configuration, logging, observability, the dataset
// cache, services and HTTP transport into one runnable application.
package app
