// Package models defines the core domain models for Checkbook.
//
// # Models
//
//   - FamilyAccount: the shared ledger unit (one balance, one member set, one transaction log)
//   - Member: an individual participant in a family account
//   - Transaction: a signed income or expense entry recorded by a member
//   - Session: the local pointer to the active family account and member
//   - Receipt: candidate transaction fields proposed by the receipt extractor
//
// # Design Principles
//
// 1. **Create-only records**: members and transactions are never edited or removed
// 2. **Derived balance**: the balance is always computed from the transaction log, never stored
// 3. **Exact money**: amounts are decimals, so sums never drift
// 4. **Avoid circular references**: relationships use ID strings instead of pointers
//
// # Trust Model
//
// A family account is joined with its ID and shared passphrase alone. There is
// no per-member credential: anyone holding both values can add themselves as a
// member. See package auth.
package models
