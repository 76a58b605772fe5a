// Package domain contains the core entities of the platform (users, tutors,
// languages and lessons) and the invariants that hold for them regardless of
// how they are stored or delivered.
package domain
