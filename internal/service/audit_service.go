package service

import (
	"context"
	"encoding/json"

	"shopmate/internal/dto"
	"shopmate/internal/model"
	"shopmate/internal/repository"
)

// AuditService exposes the stored audit trail.
type AuditService interface {
	List(ctx context.Context, filter dto.AuditLogFilter) (dto.ListResponse[dto.AuditLogResponse], error)
}

type auditService struct {
	repo repository.AuditLogRepository
}

func NewAuditService(repo repository.AuditLogRepository) AuditService {
	return &auditService{repo: repo}
}

func mapAuditLog(l model.AuditLog) dto.AuditLogResponse {
	resp := dto.AuditLogResponse{
		ID:         l.ID,
		EntityType: l.EntityType,
		EntityID:   l.EntityID,
		Action:     string(l.Action),
		Actor:      l.Actor,
		OccurredAt: l.OccurredAt,
	}
	if l.BeforeData != nil {
		resp.Before = json.RawMessage(*l.BeforeData)
	}
	if l.AfterData != nil {
		resp.After = json.RawMessage(*l.AfterData)
	}
	return resp
}

func (s *auditService) List(ctx context.Context, filter dto.AuditLogFilter) (dto.ListResponse[dto.AuditLogResponse], error) {
	list, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return dto.ListResponse[dto.AuditLogResponse]{}, dbErr(err, "list audit logs")
	}
	return dto.NewListResponse(mapList(list, mapAuditLog), total, filter.Pagination), nil
}
