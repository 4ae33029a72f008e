// Package models defines the core domain models for PayLedger.
//
// # Models
//
//   - Bill: a recurring obligation type a user tracks payments against
//   - BillUser: an access grant linking a user to a Bill with a Role
//   - Payment: one recorded payment toward a Bill
//   - MonthlyFinance: a user's recorded inflow for one Period
//   - DashboardToken: a read-only capability bound to one user and one Period
//   - User: an identity that has signed in at least once
//
// # Design Principles
//
// 1. **No implicit ownership**: a Bill is owned only through its BillUser links
// 2. **Derived fields stay derived**: Payment.Month and Payment.Year always come from PaidOn
// 3. **Snapshots over joins**: Payment.BillType records the bill name as it was when paid
// 4. **Avoid circular references**: relationships use ID strings, never pointers
//
// Amounts use decimal.Decimal so that aggregation never drifts by a cent.
package models
