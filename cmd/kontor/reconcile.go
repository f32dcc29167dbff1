package main

import (
	"fmt"
	"log/slog"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/fmeinberg/kontor/internal/model"
	"github.com/fmeinberg/kontor/internal/reconcile"
	"github.com/fmeinberg/kontor/internal/tui"
)

func reconcileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Match imported bank transactions against records",
		Long: `Reconcile imported bank transactions with invoices, income and
expense records. Auto-matching links high-confidence pairs directly;
lower-confidence proposals go to interactive review.`,
	}

	cmd.AddCommand(reconcileAutoCmd())
	cmd.AddCommand(reconcileMatchCmd())
	cmd.AddCommand(reconcileIgnoreCmd())
	cmd.AddCommand(reconcileBookCmd())
	cmd.AddCommand(reconcileStatusCmd())

	return cmd
}

func reconcileAutoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auto",
		Short: "Auto-match unmatched transactions, then review the rest",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			noReview, _ := cmd.Flags().GetBool("no-review")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := reconcile.NewServiceWithThreshold(store, nil, taxConfig().HighConfidenceThreshold)

			var bar *progressbar.ProgressBar
			proposals, err := svc.AutoMatch(ctx, func(done, total int) {
				if bar == nil {
					bar = progressbar.Default(int64(total), "matching")
				}
				_ = bar.Set(done)
			})
			if err != nil {
				return fmt.Errorf("auto-match failed: %w", err)
			}

			if len(proposals) == 0 {
				slog.Info("Auto-match complete, nothing left to review")
				return nil
			}

			if noReview {
				for _, p := range proposals {
					fmt.Printf("%s  %s  ->  %s #%d (%.0f%%)\n",
						p.Transaction.ID, p.Transaction.CounterpartName,
						p.Target.Type, p.Target.ID, p.Confidence*100)
				}
				return nil
			}

			decisions, err := tui.Run(proposals)
			if err != nil {
				return err
			}

			var accepted, ignored int
			for i, d := range decisions {
				switch d {
				case tui.DecisionAccept:
					if err := svc.Accept(ctx, proposals[i]); err != nil {
						return err
					}
					accepted++
				case tui.DecisionIgnore:
					if err := svc.Ignore(ctx, proposals[i].Transaction.ID, "rejected in review"); err != nil {
						return err
					}
					ignored++
				case tui.DecisionSkip:
				}
			}

			slog.Info("Review complete",
				"reviewed", len(proposals),
				"accepted", accepted,
				"ignored", ignored)
			return nil
		},
	}

	cmd.Flags().Bool("no-review", false, "print remaining proposals instead of opening the review UI")

	return cmd
}

func reconcileMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match [transaction-id] [invoice|expense|income] [record-id]",
		Short: "Manually link a transaction to a record",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			targetType, err := parseTargetType(args[1])
			if err != nil {
				return err
			}
			recordID, err := parseID(args[2])
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := reconcile.NewService(store, nil)
			if err := svc.ManualMatch(ctx, args[0], targetType, recordID); err != nil {
				return err
			}

			slog.Info("Transaction matched",
				"transaction", args[0],
				"target_type", targetType,
				"target_id", recordID)
			return nil
		},
	}
}

func reconcileIgnoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ignore [transaction-id]",
		Short: "Permanently remove a transaction from the open queue",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			reason, _ := cmd.Flags().GetString("reason")

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := reconcile.NewService(store, nil)
			if err := svc.Ignore(ctx, args[0], reason); err != nil {
				return err
			}

			slog.Info("Transaction ignored", "transaction", args[0])
			return nil
		},
	}

	cmd.Flags().StringP("reason", "r", "", "why the transaction is irrelevant (private, transfer, ...)")

	return cmd
}

func reconcileBookCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "book [transaction-id...]",
		Short: "Finalize matched transactions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			svc := reconcile.NewService(store, nil)
			for _, id := range args {
				if err := svc.Book(ctx, id); err != nil {
					return err
				}
				slog.Info("Transaction booked", "transaction", id)
			}
			return nil
		},
	}
}

func reconcileStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the reconciliation queue",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			for _, status := range []model.MatchStatus{
				model.StatusUnmatched,
				model.StatusAutoMatched,
				model.StatusManualMatched,
			} {
				txns, err := store.ListBankTransactionsByStatus(ctx, status)
				if err != nil {
					return err
				}
				if len(txns) == 0 {
					continue
				}
				fmt.Printf("%s (%d)\n", status, len(txns))
				for _, txn := range txns {
					fmt.Printf("  %-20s %s %10.2f  %s\n",
						txn.ID, txn.Date.Format("2006-01-02"), txn.Amount, txn.CounterpartName)
				}
			}
			return nil
		},
	}
}

func parseTargetType(s string) (model.MatchTargetType, error) {
	switch model.MatchTargetType(s) {
	case model.TargetInvoice, model.TargetExpense, model.TargetIncome:
		return model.MatchTargetType(s), nil
	default:
		return "", fmt.Errorf("invalid target type %q, expected invoice, expense, or income", s)
	}
}
