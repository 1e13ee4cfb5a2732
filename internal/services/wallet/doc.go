/*
Package wallet owns every read and mutation of a user's prepaid balance.

The service enforces the non-negative balance invariant and serializes all
balance mutations per user: Credit and Debit take an in-process lock keyed
by user id and then run their read-check-write sequence inside a database
transaction that row-locks the user. Two concurrent debits can therefore
never both observe the same balance, and the ledger always reconciles with
the stored balance.

Usage:

	svc := wallet.NewService(repo, cache, wallet.Config{}, metrics)

	newBalance, err := svc.Credit(ctx, userID, amount)
	newBalance, err = svc.Debit(ctx, userID, amount)
	balance, err := svc.Balance(ctx, userID)

Error Handling:

- ErrInvalidAmount: amount is zero or negative
- ErrUserNotFound: user does not exist
- ErrInsufficientBalance: a debit would take the balance below zero;
  nothing is mutated

Cache Management:

Balances are cached in Redis and invalidated on every successful mutation.
*/
package wallet
