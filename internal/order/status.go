package order

type Status string

// Orders are created after a successful reservation and never move out of
// CONFIRMED; a failed placement leaves no row at all.
const StatusConfirmed Status = "CONFIRMED"
