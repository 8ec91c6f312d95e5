package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/classhub/classhub-web/internal/model"
)

type httpClasses struct{ b *backend }

func (c *httpClasses) GetByClassCode(ctx context.Context, classCode string) (*model.Class, error) {
	var out model.Class
	if err := c.b.call(ctx, http.MethodGet, "/api/classes/shared/"+seg(classCode), nil, nil, &out,
		"클래스를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *httpClasses) GetSessionsByClassID(ctx context.Context, classID int64) ([]model.Session, error) {
	var out []model.Session
	if err := c.b.call(ctx, http.MethodGet, fmt.Sprintf("/api/classes/%d/sessions", classID), nil, nil, &out,
		"일정 정보를 가져올 수 없습니다."); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *httpClasses) GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	var out model.Session
	if err := c.b.call(ctx, http.MethodGet, fmt.Sprintf("/api/sessions/%d", sessionID), nil, nil, &out,
		"일정 정보를 찾을 수 없습니다."); err != nil {
		return nil, err
	}
	return &out, nil
}
