package service

import (
	"context"
	"godrive_backend/internal/config"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
)

type FavoriteService struct {
	UserRepo *repository.UserRepository
	Exam     config.ExamConfig
}

func NewFavoriteService(userRepo *repository.UserRepository, exam config.ExamConfig) *FavoriteService {
	return &FavoriteService{UserRepo: userRepo, Exam: exam}
}

func (s *FavoriteService) checkID(questionID int) error {
	if questionID < 1 || questionID > s.Exam.TotalQuestions {
		return util.NewValidationError("question id must be between 1 and %d", s.Exam.TotalQuestions)
	}
	return nil
}

func (s *FavoriteService) List(ctx context.Context, userID uint) ([]int, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user.Favorites == nil {
		return []int{}, nil
	}
	return []int(user.Favorites), nil
}

// Add 幂等：已收藏时直接返回当前列表
func (s *FavoriteService) Add(ctx context.Context, userID uint, questionID int) ([]int, error) {
	if err := s.checkID(questionID); err != nil {
		return nil, err
	}
	return s.UserRepo.MutateFavorites(ctx, userID, func(current []int) []int {
		for _, id := range current {
			if id == questionID {
				return current
			}
		}
		return append(current, questionID)
	})
}

// Remove is idempotent: removing an absent id leaves the list unchanged.
func (s *FavoriteService) Remove(ctx context.Context, userID uint, questionID int) ([]int, error) {
	if err := s.checkID(questionID); err != nil {
		return nil, err
	}
	return s.UserRepo.MutateFavorites(ctx, userID, func(current []int) []int {
		kept := make([]int, 0, len(current))
		for _, id := range current {
			if id != questionID {
				kept = append(kept, id)
			}
		}
		return kept
	})
}

func (s *FavoriteService) Clear(ctx context.Context, userID uint) error {
	_, err := s.UserRepo.MutateFavorites(ctx, userID, func([]int) []int { return []int{} })
	return err
}
