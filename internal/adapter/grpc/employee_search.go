package grpc

import (
	"context"
	"fmt"
	"math"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// ServiceName is the fully qualified name of the employee search service.
const ServiceName = "qbe.employee.v1.EmployeeSearch"

// Field names of an employee on the wire.
const (
	fieldID         = "id"
	fieldFirstName  = "first_name"
	fieldLastName   = "last_name"
	fieldDepartment = "department"
	fieldPosition   = "position"
	fieldSalary     = "salary"
)

// Employee is the Go view of an employee message. On the wire it is a
// google.protobuf.Struct holding only the populated fields.
type Employee struct {
	ID         int64
	FirstName  string
	LastName   string
	Department string
	Position   string
	Salary     float64
}

// SearchRequest carries the first name / department search parameters.
type SearchRequest struct {
	FirstName  string
	Department string
}

// ToStruct encodes e as a Struct. Zero-valued fields are left out; a nil
// employee encodes as an empty Struct.
func (e *Employee) ToStruct() *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	if e == nil {
		return s
	}
	if e.ID != 0 {
		s.Fields[fieldID] = structpb.NewNumberValue(float64(e.ID))
	}
	putString(s, fieldFirstName, e.FirstName)
	putString(s, fieldLastName, e.LastName)
	putString(s, fieldDepartment, e.Department)
	putString(s, fieldPosition, e.Position)
	if e.Salary != 0 {
		s.Fields[fieldSalary] = structpb.NewNumberValue(e.Salary)
	}
	return s
}

// ToStruct encodes the search parameters as a Struct.
func (r SearchRequest) ToStruct() *structpb.Struct {
	s := &structpb.Struct{Fields: map[string]*structpb.Value{}}
	putString(s, fieldFirstName, r.FirstName)
	putString(s, fieldDepartment, r.Department)
	return s
}

func putString(s *structpb.Struct, key, value string) {
	if value != "" {
		s.Fields[key] = structpb.NewStringValue(value)
	}
}

// EmployeeFromStruct decodes an employee. Unknown keys and values of the
// wrong kind are rejected; null values count as unset.
func EmployeeFromStruct(s *structpb.Struct) (*Employee, error) {
	e := &Employee{}
	for key, v := range s.GetFields() {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
			continue
		}
		var err error
		switch key {
		case fieldID:
			e.ID, err = integerField(key, v)
		case fieldFirstName:
			e.FirstName, err = stringField(key, v)
		case fieldLastName:
			e.LastName, err = stringField(key, v)
		case fieldDepartment:
			e.Department, err = stringField(key, v)
		case fieldPosition:
			e.Position, err = stringField(key, v)
		case fieldSalary:
			e.Salary, err = numberField(key, v)
		default:
			err = fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SearchRequestFromStruct decodes the search parameters.
func SearchRequestFromStruct(s *structpb.Struct) (SearchRequest, error) {
	var r SearchRequest
	for key, v := range s.GetFields() {
		if _, isNull := v.GetKind().(*structpb.Value_NullValue); isNull {
			continue
		}
		var err error
		switch key {
		case fieldFirstName:
			r.FirstName, err = stringField(key, v)
		case fieldDepartment:
			r.Department, err = stringField(key, v)
		default:
			err = fmt.Errorf("unknown field %q", key)
		}
		if err != nil {
			return SearchRequest{}, err
		}
	}
	return r, nil
}

func stringField(key string, v *structpb.Value) (string, error) {
	sv, ok := v.GetKind().(*structpb.Value_StringValue)
	if !ok {
		return "", fmt.Errorf("field %q must be a string", key)
	}
	return sv.StringValue, nil
}

func numberField(key string, v *structpb.Value) (float64, error) {
	nv, ok := v.GetKind().(*structpb.Value_NumberValue)
	if !ok {
		return 0, fmt.Errorf("field %q must be a number", key)
	}
	return nv.NumberValue, nil
}

func integerField(key string, v *structpb.Value) (int64, error) {
	n, err := numberField(key, v)
	if err != nil {
		return 0, err
	}
	if n != math.Trunc(n) || math.Abs(n) > 1<<53 {
		return 0, fmt.Errorf("field %q must be an integer", key)
	}
	return int64(n), nil
}

// EmployeesToList encodes employees as a ListValue of Structs.
func EmployeesToList(list []*Employee) *structpb.ListValue {
	out := &structpb.ListValue{Values: make([]*structpb.Value, 0, len(list))}
	for _, e := range list {
		out.Values = append(out.Values, structpb.NewStructValue(e.ToStruct()))
	}
	return out
}

// EmployeesFromList decodes a ListValue of employee Structs.
func EmployeesFromList(l *structpb.ListValue) ([]*Employee, error) {
	out := make([]*Employee, 0, len(l.GetValues()))
	for i, v := range l.GetValues() {
		s := v.GetStructValue()
		if s == nil {
			return nil, fmt.Errorf("element %d is not an employee", i)
		}
		e, err := EmployeeFromStruct(s)
		if err != nil {
			return nil, fmt.Errorf("element %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// EmployeeSearchServer is the server API for the employee search service.
// Examples and employees travel as google.protobuf.Struct, lists as
// google.protobuf.ListValue.
type EmployeeSearchServer interface {
	FindByExample(context.Context, *structpb.Struct) (*structpb.ListValue, error)
	FindOneByExample(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Count(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error)
	Exists(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error)
	Search(context.Context, *structpb.Struct) (*structpb.ListValue, error)
}

// UnimplementedEmployeeSearchServer can be embedded to stay forward compatible.
type UnimplementedEmployeeSearchServer struct{}

func (UnimplementedEmployeeSearchServer) FindByExample(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method FindByExample not implemented")
}

func (UnimplementedEmployeeSearchServer) FindOneByExample(context.Context, *structpb.Struct) (*structpb.Struct, error) {
	return nil, status.Error(codes.Unimplemented, "method FindOneByExample not implemented")
}

func (UnimplementedEmployeeSearchServer) Count(context.Context, *structpb.Struct) (*wrapperspb.Int64Value, error) {
	return nil, status.Error(codes.Unimplemented, "method Count not implemented")
}

func (UnimplementedEmployeeSearchServer) Exists(context.Context, *structpb.Struct) (*wrapperspb.BoolValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Exists not implemented")
}

func (UnimplementedEmployeeSearchServer) Search(context.Context, *structpb.Struct) (*structpb.ListValue, error) {
	return nil, status.Error(codes.Unimplemented, "method Search not implemented")
}

// RegisterEmployeeSearchServer registers srv on s.
func RegisterEmployeeSearchServer(s grpc.ServiceRegistrar, srv EmployeeSearchServer) {
	s.RegisterService(&EmployeeSearchServiceDesc, srv)
}

// unary adapts a typed server method to a grpc.MethodHandler.
func unary[Req, Resp any](method string, call func(EmployeeSearchServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	fullMethod := "/" + ServiceName + "/" + method
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(EmployeeSearchServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(EmployeeSearchServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// EmployeeSearchServiceDesc describes the employee search service.
var EmployeeSearchServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*EmployeeSearchServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "FindByExample", Handler: unary("FindByExample", EmployeeSearchServer.FindByExample)},
		{MethodName: "FindOneByExample", Handler: unary("FindOneByExample", EmployeeSearchServer.FindOneByExample)},
		{MethodName: "Count", Handler: unary("Count", EmployeeSearchServer.Count)},
		{MethodName: "Exists", Handler: unary("Exists", EmployeeSearchServer.Exists)},
		{MethodName: "Search", Handler: unary("Search", EmployeeSearchServer.Search)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "qbe/employee/v1/employee_search",
}

// EmployeeSearchClient is the client API for the employee search service.
type EmployeeSearchClient struct {
	cc grpc.ClientConnInterface
}

// NewEmployeeSearchClient creates a client for the employee search service on cc.
func NewEmployeeSearchClient(cc grpc.ClientConnInterface) *EmployeeSearchClient {
	return &EmployeeSearchClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, c *EmployeeSearchClient, method string, in *structpb.Struct, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := c.cc.Invoke(ctx, "/"+ServiceName+"/"+method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// FindByExample returns every employee matching the example. A nil example
// matches everyone.
func (c *EmployeeSearchClient) FindByExample(ctx context.Context, example *Employee, opts ...grpc.CallOption) ([]*Employee, error) {
	out, err := invoke[structpb.ListValue](ctx, c, "FindByExample", example.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return EmployeesFromList(out)
}

// FindOneByExample returns the single employee matching the example.
func (c *EmployeeSearchClient) FindOneByExample(ctx context.Context, example *Employee, opts ...grpc.CallOption) (*Employee, error) {
	out, err := invoke[structpb.Struct](ctx, c, "FindOneByExample", example.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return EmployeeFromStruct(out)
}

// Count returns the number of employees matching the example.
func (c *EmployeeSearchClient) Count(ctx context.Context, example *Employee, opts ...grpc.CallOption) (int64, error) {
	out, err := invoke[wrapperspb.Int64Value](ctx, c, "Count", example.ToStruct(), opts)
	if err != nil {
		return 0, err
	}
	return out.GetValue(), nil
}

// Exists reports whether any employee matches the example.
func (c *EmployeeSearchClient) Exists(ctx context.Context, example *Employee, opts ...grpc.CallOption) (bool, error) {
	out, err := invoke[wrapperspb.BoolValue](ctx, c, "Exists", example.ToStruct(), opts)
	if err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

// Search runs the case-insensitive first name / department search.
func (c *EmployeeSearchClient) Search(ctx context.Context, in SearchRequest, opts ...grpc.CallOption) ([]*Employee, error) {
	out, err := invoke[structpb.ListValue](ctx, c, "Search", in.ToStruct(), opts)
	if err != nil {
		return nil, err
	}
	return EmployeesFromList(out)
}
