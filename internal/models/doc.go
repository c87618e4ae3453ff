// Package models defines the core domain models for freeslots.
//
// # Models
//
//   - User: registered account that can join groups and submit availability
//   - Group: named set of members whose availability is resolved together
//   - Membership: the (user, group) pair that makes a user a required participant
//   - Availability: one free-time window submitted by one member for one group
//
// # Design Principles
//
//  1. **Absolute instants**: availability windows are stored as time.Time instants,
//     never as wall-clock day/time pairs, so cross-midnight windows are representable
//  2. **Avoid circular references**: use ID strings instead of pointers for relationships
//  3. **Derived data is not modeled here**: resolved slots live in the calculator package
//     and are never persisted
package models
