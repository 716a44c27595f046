package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/librisys/librisys/internal/errs"
	"github.com/librisys/librisys/internal/model"
	"github.com/librisys/librisys/internal/repository"
	"github.com/librisys/librisys/pkg/kafka"
)

type Service struct {
	log      *zap.Logger
	repo     repository.Repository
	producer sarama.SyncProducer
	jwtKey   []byte
}

// NewService wires the domain operations. producer may be nil, in which
// case lifecycle events are not published.
func NewService(repo repository.Repository, log *zap.Logger, producer sarama.SyncProducer, jwtKey []byte) *Service {
	return &Service{
		log:      log,
		repo:     repo,
		producer: producer,
		jwtKey:   jwtKey,
	}
}

// catalog

func (s *Service) ListBooks(ctx context.Context) ([]model.Book, error) {
	return s.repo.ListBooks(ctx)
}

func (s *Service) GetBook(ctx context.Context, id int) (model.Book, error) {
	return s.repo.GetBook(ctx, id)
}

func (s *Service) AddBook(ctx context.Context, req model.BookCreateRequest) (model.Book, error) {
	return s.repo.CreateBook(ctx, req)
}

func (s *Service) UpdateBook(ctx context.Context, id int, req model.BookUpdateRequest) (model.Book, error) {
	return s.repo.UpdateBook(ctx, id, req)
}

func (s *Service) DeleteBook(ctx context.Context, id int) error {
	return s.repo.DeleteBook(ctx, id)
}

// borrow ledger

func (s *Service) RequestBorrow(ctx context.Context, userID, bookID int) (model.BorrowRecord, error) {
	rec, err := s.repo.CreateBorrowRequest(ctx, userID, bookID)
	if err != nil {
		return model.BorrowRecord{}, err
	}
	s.publish(rec, kafka.EventRequested, 0)
	return rec, nil
}

func (s *Service) DecideBorrow(ctx context.Context, recordID int, action string) (model.BorrowRecord, error) {
	switch action {
	case model.ActionApprove:
		rec, err := s.repo.ApproveBorrow(ctx, recordID)
		if err != nil {
			return model.BorrowRecord{}, err
		}
		s.notify(ctx, rec.UserID, "Your borrow request has been approved.", "borrow")
		s.publish(rec, kafka.EventApproved, 0)
		return rec, nil
	case model.ActionReject:
		rec, err := s.repo.RejectBorrow(ctx, recordID)
		if err != nil {
			return model.BorrowRecord{}, err
		}
		s.notify(ctx, rec.UserID, "Your borrow request has been rejected.", "borrow")
		s.publish(rec, kafka.EventRejected, 0)
		return rec, nil
	default:
		return model.BorrowRecord{}, errs.ErrInvalidAction
	}
}

func (s *Service) ReturnBook(ctx context.Context, recordID, userID int) (model.BorrowRecord, error) {
	rec, err := s.repo.ReturnBook(ctx, recordID, userID, time.Now().UTC())
	if err != nil {
		return model.BorrowRecord{}, err
	}
	s.publish(rec, kafka.EventReturned, rec.Fine)
	return rec, nil
}

func (s *Service) ListPending(ctx context.Context) ([]model.PendingRequest, error) {
	return s.repo.ListPending(ctx)
}

// fines & payments

func (s *Service) PayFine(ctx context.Context, borrowID int, amount float64) (model.Payment, error) {
	payment, err := s.repo.PayFine(ctx, borrowID, amount)
	if err != nil {
		return model.Payment{}, err
	}
	s.notify(ctx, payment.UserID, fmt.Sprintf("Your fine of %.2f has been paid.", payment.AmountPaid), "fine")
	s.publish(model.BorrowRecord{ID: payment.BorrowID, UserID: payment.UserID}, kafka.EventFinePaid, payment.AmountPaid)
	return payment, nil
}

func (s *Service) MarkFinePaid(ctx context.Context, borrowID int) error {
	userID, err := s.repo.MarkFinePaid(ctx, borrowID)
	if err != nil {
		return err
	}
	s.notify(ctx, userID, "Your fine has been marked as paid.", "fine")
	return nil
}

// notifications

func (s *Service) Notifications(ctx context.Context, userID int) ([]model.Notification, error) {
	return s.repo.UnreadNotifications(ctx, userID)
}

func (s *Service) MarkNotificationsRead(ctx context.Context, userID int) error {
	return s.repo.MarkNotificationsRead(ctx, userID)
}

// notify stores a notification best-effort: a failed insert is logged and
// never fails the operation that triggered it.
func (s *Service) notify(ctx context.Context, userID int, message, notifType string) {
	if err := s.repo.CreateNotification(ctx, userID, message, notifType); err != nil {
		s.log.Error("notify", zap.Int("user_id", userID), zap.Error(err))
	}
}

// publish emits a lifecycle event, best-effort as well.
func (s *Service) publish(rec model.BorrowRecord, eventType string, amount float64) {
	if s.producer == nil {
		return
	}
	event := kafka.EventBorrow{
		Timestamp: time.Now().UTC(),
		RecordID:  rec.ID,
		BookID:    rec.BookID,
		UserID:    rec.UserID,
		EventType: eventType,
		Amount:    amount,
	}
	data, err := json.Marshal(event)
	if err != nil {
		s.log.Error("publish marshal", zap.Error(err))
		return
	}
	msg := &sarama.ProducerMessage{Topic: kafka.TopicBorrowEvents, Value: sarama.StringEncoder(data)}
	if _, _, err := s.producer.SendMessage(msg); err != nil {
		s.log.Error("publish", zap.String("event", eventType), zap.Error(err))
	}
}
