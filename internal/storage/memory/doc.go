// Package memory holds mutex-guarded in-process stores. They back the
// service when database.driver is "memory" and every package test; the
// conditioned-write semantics match the gorm repos exactly, so the
// optimistic-concurrency paths exercise the same code in both backends.
package memory
