package api

import (
	"context"

	"github.com/classhub/classhub-web/internal/model"
)

type mockClasses struct{ m *mockBackend }

func (c *mockClasses) GetByClassCode(ctx context.Context, classCode string) (*model.Class, error) {
	cls, ok := c.m.classes[classCode]
	if !ok {
		return nil, notFound("클래스를 찾을 수 없습니다.")
	}
	c.m.mu.Lock()
	overlay, err := c.m.sessions(ctx)
	c.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	cls.Sessions = withOccupancy(cls, overlay)
	return &cls, nil
}

func (c *mockClasses) GetSessionsByClassID(ctx context.Context, classID int64) ([]model.Session, error) {
	cls, ok := c.m.classByID(classID)
	if !ok {
		return nil, notFound("클래스를 찾을 수 없습니다.")
	}
	c.m.mu.Lock()
	overlay, err := c.m.sessions(ctx)
	c.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return withOccupancy(cls, overlay), nil
}

func (c *mockClasses) GetSessionByID(ctx context.Context, sessionID int64) (*model.Session, error) {
	c.m.mu.Lock()
	overlay, err := c.m.sessions(ctx)
	c.m.mu.Unlock()
	if err != nil {
		return nil, err
	}
	for _, cls := range c.m.classes {
		for _, s := range withOccupancy(cls, overlay) {
			if s.ID == sessionID {
				return &s, nil
			}
		}
	}
	return nil, notFound("일정 정보를 찾을 수 없습니다.")
}
