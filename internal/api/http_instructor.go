package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/classhub/classhub-web/internal/model"
)

type httpInstructors struct{ b *backend }

func (i *httpInstructors) Login(ctx context.Context, email, password string) (*model.Instructor, error) {
	body := map[string]string{"email": email, "password": password}
	var out model.Instructor
	if err := i.b.call(ctx, http.MethodPost, "/api/instructors/login", nil, body, &out,
		"이메일 또는 비밀번호가 올바르지 않습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (i *httpInstructors) ListClasses(ctx context.Context, instructorID int64) ([]model.ClassSummary, error) {
	var out []model.ClassSummary
	if err := i.b.call(ctx, http.MethodGet, fmt.Sprintf("/api/instructors/%d/classes", instructorID), nil, nil, &out,
		"클래스 목록을 가져올 수 없습니다."); err != nil {
		return nil, err
	}
	return out, nil
}
