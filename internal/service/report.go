package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/librisys/librisys/internal/model"
)

const reportLimit = 5

func (s *Service) MostBorrowed(ctx context.Context) ([]model.MostBorrowedBook, error) {
	return s.repo.MostBorrowed(ctx, reportLimit)
}

func (s *Service) TopBorrowers(ctx context.Context) ([]model.TopBorrower, error) {
	return s.repo.TopBorrowers(ctx, reportLimit)
}

func (s *Service) OverdueBooks(ctx context.Context) ([]model.OverdueBook, error) {
	return s.repo.OverdueBooks(ctx)
}

func (s *Service) FineReports(ctx context.Context) ([]model.FineReport, error) {
	return s.repo.FineReports(ctx)
}

func (s *Service) PaymentHistory(ctx context.Context) ([]model.PaymentHistoryItem, error) {
	return s.repo.PaymentHistory(ctx)
}

// StudentDashboard gathers the caller's loans, outstanding fine total and
// payment history concurrently; all three are independent reads.
func (s *Service) StudentDashboard(ctx context.Context, userID int) (model.Dashboard, error) {
	var dashboard model.Dashboard

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		books, err := s.repo.BorrowedBooks(ctx, userID)
		if err != nil {
			return err
		}
		dashboard.BorrowedBooks = books
		return nil
	})
	g.Go(func() error {
		total, err := s.repo.TotalFine(ctx, userID)
		if err != nil {
			return err
		}
		dashboard.TotalFine = total
		return nil
	})
	g.Go(func() error {
		payments, err := s.repo.PaymentsByUser(ctx, userID)
		if err != nil {
			return err
		}
		dashboard.PaymentHistory = payments
		return nil
	})
	if err := g.Wait(); err != nil {
		return model.Dashboard{}, err
	}
	return dashboard, nil
}
