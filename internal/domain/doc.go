// Package domain contains the core business entities of the task backend:
// tasks, users and notifications. The entities are read from and written to a
// document store, so this package also owns the normalization of the loosely
// typed fields those documents carry (creator and assignee records in
// particular). Deadline arithmetic lives in the deadline subpackage.
package domain
