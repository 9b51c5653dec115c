package grpc

import (
	"context"

	"go.uber.org/zap"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"employee-qbe-service/internal/usecase/employee"
	pkgerrors "employee-qbe-service/pkg/errors"
	"employee-qbe-service/pkg/logger"
)

// EmployeeSearchService implements the gRPC employee search service
type EmployeeSearchService struct {
	UnimplementedEmployeeSearchServer
	uc  employee.Service
	log *zap.Logger
}

// NewEmployeeSearchService creates a new gRPC employee search service
func NewEmployeeSearchService(uc employee.Service, log *zap.Logger) *EmployeeSearchService {
	return &EmployeeSearchService{uc: uc, log: log}
}

func toProbe(e *Employee) employee.EmployeeProbe {
	return employee.EmployeeProbe{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
	}
}

func toMessage(e employee.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		FirstName:  e.FirstName,
		LastName:   e.LastName,
		Department: e.Department,
		Position:   e.Position,
		Salary:     e.Salary,
	}
}

func toList(list []employee.Employee) *structpb.ListValue {
	msgs := make([]*Employee, 0, len(list))
	for _, e := range list {
		msgs = append(msgs, toMessage(e))
	}
	return EmployeesToList(msgs)
}

func (s *EmployeeSearchService) fail(ctx context.Context, method string, err error) error {
	logger.WithContext(ctx, s.log).Debug("grpc call failed", zap.String("method", method), zap.Error(err))
	return pkgerrors.ToGRPC(err)
}

// decodeExample turns the request Struct into a probe. An empty Struct
// matches everyone.
func (s *EmployeeSearchService) decodeExample(ctx context.Context, method string, req *structpb.Struct) (employee.EmployeeProbe, error) {
	e, err := EmployeeFromStruct(req)
	if err != nil {
		return employee.EmployeeProbe{}, s.fail(ctx, method, pkgerrors.NewValidationError("example", err.Error()))
	}
	return toProbe(e), nil
}

// FindByExample handles the gRPC FindByExample request
func (s *EmployeeSearchService) FindByExample(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	probe, err := s.decodeExample(ctx, "FindByExample", req)
	if err != nil {
		return nil, err
	}
	list, err := s.uc.FindEmployeesByExample(ctx, probe)
	if err != nil {
		return nil, s.fail(ctx, "FindByExample", err)
	}
	return toList(list), nil
}

// FindOneByExample handles the gRPC FindOneByExample request
func (s *EmployeeSearchService) FindOneByExample(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	probe, err := s.decodeExample(ctx, "FindOneByExample", req)
	if err != nil {
		return nil, err
	}
	e, err := s.uc.FindOneEmployeeByExample(ctx, probe)
	if err != nil {
		return nil, s.fail(ctx, "FindOneByExample", err)
	}
	return toMessage(*e).ToStruct(), nil
}

// Count handles the gRPC Count request
func (s *EmployeeSearchService) Count(ctx context.Context, req *structpb.Struct) (*wrapperspb.Int64Value, error) {
	probe, err := s.decodeExample(ctx, "Count", req)
	if err != nil {
		return nil, err
	}
	n, err := s.uc.CountEmployeesByExample(ctx, probe)
	if err != nil {
		return nil, s.fail(ctx, "Count", err)
	}
	return wrapperspb.Int64(n), nil
}

// Exists handles the gRPC Exists request
func (s *EmployeeSearchService) Exists(ctx context.Context, req *structpb.Struct) (*wrapperspb.BoolValue, error) {
	probe, err := s.decodeExample(ctx, "Exists", req)
	if err != nil {
		return nil, err
	}
	ok, err := s.uc.ExistsByExample(ctx, probe)
	if err != nil {
		return nil, s.fail(ctx, "Exists", err)
	}
	return wrapperspb.Bool(ok), nil
}

// Search handles the gRPC Search request
func (s *EmployeeSearchService) Search(ctx context.Context, req *structpb.Struct) (*structpb.ListValue, error) {
	in, err := SearchRequestFromStruct(req)
	if err != nil {
		return nil, s.fail(ctx, "Search", pkgerrors.NewValidationError("search", err.Error()))
	}
	list, err := s.uc.FindEmployeesWithCustomMatcher(ctx, employee.SearchRequest{
		FirstName:  in.FirstName,
		Department: in.Department,
	})
	if err != nil {
		return nil, s.fail(ctx, "Search", err)
	}
	return toList(list), nil
}
