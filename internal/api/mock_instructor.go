package api

import (
	"context"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/classhub/classhub-web/internal/model"
)

type mockInstructors struct{ m *mockBackend }

func (i *mockInstructors) Login(_ context.Context, email, password string) (*model.Instructor, error) {
	if !strings.EqualFold(strings.TrimSpace(email), demoInstructorEmail) || len(i.m.instHash) == 0 {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword(i.m.instHash, []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	inst := demoInstructor
	return &inst, nil
}

func (i *mockInstructors) ListClasses(_ context.Context, instructorID int64) ([]model.ClassSummary, error) {
	out := []model.ClassSummary{}
	for _, c := range i.m.classes {
		if c.InstructorID != instructorID {
			continue
		}
		out = append(out, model.ClassSummary{
			ID:           c.ID,
			Name:         c.Name,
			ClassCode:    c.ClassCode,
			SessionCount: len(c.Sessions),
			LinkShare:    "ENABLED",
		})
	}
	return out, nil
}
