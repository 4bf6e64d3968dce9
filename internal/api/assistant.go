package api

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "jobassistant.v1.Assistant"

const (
	MethodSignup             = "Signup"
	MethodLogin              = "Login"
	MethodRefresh            = "Refresh"
	MethodLogout             = "Logout"
	MethodMe                 = "Me"
	MethodChangePassword     = "ChangePassword"
	MethodDeactivate         = "Deactivate"
	MethodFederatedLoginURL  = "FederatedLoginURL"
	MethodFederatedLogin     = "FederatedLogin"
	MethodSendMessage        = "SendMessage"
	MethodListConversations  = "ListConversations"
	MethodGetConversation    = "GetConversation"
	MethodCreateConversation = "CreateConversation"
	MethodRenameConversation = "RenameConversation"
	MethodDeleteConversation = "DeleteConversation"
	MethodGetProfile         = "GetProfile"
	MethodPutProfile         = "PutProfile"
)

// FullMethod returns "/jobassistant.v1.Assistant/<method>".
func FullMethod(method string) string { return "/" + ServiceName + "/" + method }

// AssistantServer is implemented by the server transport.
type AssistantServer interface {
	Signup(context.Context, *SignupRequest) (*SessionResponse, error)
	Login(context.Context, *LoginRequest) (*SessionResponse, error)
	Refresh(context.Context, *RefreshRequest) (*SessionResponse, error)
	Logout(context.Context, *Empty) (*RevokedResponse, error)
	Me(context.Context, *Empty) (*Account, error)
	ChangePassword(context.Context, *ChangePasswordRequest) (*RevokedResponse, error)
	Deactivate(context.Context, *Empty) (*Empty, error)
	FederatedLoginURL(context.Context, *FederatedLoginURLRequest) (*FederatedLoginURLResponse, error)
	FederatedLogin(context.Context, *FederatedLoginRequest) (*SessionResponse, error)
	SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error)
	ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error)
	GetConversation(context.Context, *ThreadRequest) (*GetConversationResponse, error)
	CreateConversation(context.Context, *CreateConversationRequest) (*ThreadResponse, error)
	RenameConversation(context.Context, *RenameConversationRequest) (*Empty, error)
	DeleteConversation(context.Context, *ThreadRequest) (*Empty, error)
	GetProfile(context.Context, *Empty) (*ProfileResponse, error)
	PutProfile(context.Context, *PutProfileRequest) (*ProfileResponse, error)
}

// UnimplementedAssistantServer answers every method with codes.Unimplemented.
type UnimplementedAssistantServer struct{}

func unimplemented(method string) error {
	return status.Errorf(codes.Unimplemented, "method %s not implemented", method)
}

func (UnimplementedAssistantServer) Signup(context.Context, *SignupRequest) (*SessionResponse, error) {
	return nil, unimplemented(MethodSignup)
}
func (UnimplementedAssistantServer) Login(context.Context, *LoginRequest) (*SessionResponse, error) {
	return nil, unimplemented(MethodLogin)
}
func (UnimplementedAssistantServer) Refresh(context.Context, *RefreshRequest) (*SessionResponse, error) {
	return nil, unimplemented(MethodRefresh)
}
func (UnimplementedAssistantServer) Logout(context.Context, *Empty) (*RevokedResponse, error) {
	return nil, unimplemented(MethodLogout)
}
func (UnimplementedAssistantServer) Me(context.Context, *Empty) (*Account, error) {
	return nil, unimplemented(MethodMe)
}
func (UnimplementedAssistantServer) ChangePassword(context.Context, *ChangePasswordRequest) (*RevokedResponse, error) {
	return nil, unimplemented(MethodChangePassword)
}
func (UnimplementedAssistantServer) Deactivate(context.Context, *Empty) (*Empty, error) {
	return nil, unimplemented(MethodDeactivate)
}
func (UnimplementedAssistantServer) FederatedLoginURL(context.Context, *FederatedLoginURLRequest) (*FederatedLoginURLResponse, error) {
	return nil, unimplemented(MethodFederatedLoginURL)
}
func (UnimplementedAssistantServer) FederatedLogin(context.Context, *FederatedLoginRequest) (*SessionResponse, error) {
	return nil, unimplemented(MethodFederatedLogin)
}
func (UnimplementedAssistantServer) SendMessage(context.Context, *SendMessageRequest) (*SendMessageResponse, error) {
	return nil, unimplemented(MethodSendMessage)
}
func (UnimplementedAssistantServer) ListConversations(context.Context, *ListConversationsRequest) (*ListConversationsResponse, error) {
	return nil, unimplemented(MethodListConversations)
}
func (UnimplementedAssistantServer) GetConversation(context.Context, *ThreadRequest) (*GetConversationResponse, error) {
	return nil, unimplemented(MethodGetConversation)
}
func (UnimplementedAssistantServer) CreateConversation(context.Context, *CreateConversationRequest) (*ThreadResponse, error) {
	return nil, unimplemented(MethodCreateConversation)
}
func (UnimplementedAssistantServer) RenameConversation(context.Context, *RenameConversationRequest) (*Empty, error) {
	return nil, unimplemented(MethodRenameConversation)
}
func (UnimplementedAssistantServer) DeleteConversation(context.Context, *ThreadRequest) (*Empty, error) {
	return nil, unimplemented(MethodDeleteConversation)
}
func (UnimplementedAssistantServer) GetProfile(context.Context, *Empty) (*ProfileResponse, error) {
	return nil, unimplemented(MethodGetProfile)
}
func (UnimplementedAssistantServer) PutProfile(context.Context, *PutProfileRequest) (*ProfileResponse, error) {
	return nil, unimplemented(MethodPutProfile)
}

// unary adapts a method expression of AssistantServer to a grpc.MethodDesc.
func unary[Req, Resp any](name string, call func(AssistantServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			s := srv.(AssistantServer)
			if interceptor == nil {
				return call(s, ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: FullMethod(name)}
			return interceptor(ctx, in, info, func(ctx context.Context, req any) (any, error) {
				return call(s, ctx, req.(*Req))
			})
		},
	}
}

// AssistantServiceDesc describes jobassistant.v1.Assistant.
var AssistantServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AssistantServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(MethodSignup, AssistantServer.Signup),
		unary(MethodLogin, AssistantServer.Login),
		unary(MethodRefresh, AssistantServer.Refresh),
		unary(MethodLogout, AssistantServer.Logout),
		unary(MethodMe, AssistantServer.Me),
		unary(MethodChangePassword, AssistantServer.ChangePassword),
		unary(MethodDeactivate, AssistantServer.Deactivate),
		unary(MethodFederatedLoginURL, AssistantServer.FederatedLoginURL),
		unary(MethodFederatedLogin, AssistantServer.FederatedLogin),
		unary(MethodSendMessage, AssistantServer.SendMessage),
		unary(MethodListConversations, AssistantServer.ListConversations),
		unary(MethodGetConversation, AssistantServer.GetConversation),
		unary(MethodCreateConversation, AssistantServer.CreateConversation),
		unary(MethodRenameConversation, AssistantServer.RenameConversation),
		unary(MethodDeleteConversation, AssistantServer.DeleteConversation),
		unary(MethodGetProfile, AssistantServer.GetProfile),
		unary(MethodPutProfile, AssistantServer.PutProfile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "jobassistant/v1/assistant",
}

func RegisterAssistantServer(s grpc.ServiceRegistrar, srv AssistantServer) {
	s.RegisterService(&AssistantServiceDesc, srv)
}

// AssistantClient calls jobassistant.v1.Assistant. Every call is sent with
// the JSON codec.
type AssistantClient struct {
	cc grpc.ClientConnInterface
}

func NewAssistantClient(cc grpc.ClientConnInterface) *AssistantClient {
	return &AssistantClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, FullMethod(method), in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AssistantClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodSignup, in, opts)
}

func (c *AssistantClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *AssistantClient) Refresh(ctx context.Context, in *RefreshRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodRefresh, in, opts)
}

func (c *AssistantClient) Logout(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*RevokedResponse, error) {
	return invoke[RevokedResponse](ctx, c.cc, MethodLogout, in, opts)
}

func (c *AssistantClient) Me(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodMe, in, opts)
}

func (c *AssistantClient) ChangePassword(ctx context.Context, in *ChangePasswordRequest, opts ...grpc.CallOption) (*RevokedResponse, error) {
	return invoke[RevokedResponse](ctx, c.cc, MethodChangePassword, in, opts)
}

func (c *AssistantClient) Deactivate(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeactivate, in, opts)
}

func (c *AssistantClient) FederatedLoginURL(ctx context.Context, in *FederatedLoginURLRequest, opts ...grpc.CallOption) (*FederatedLoginURLResponse, error) {
	return invoke[FederatedLoginURLResponse](ctx, c.cc, MethodFederatedLoginURL, in, opts)
}

func (c *AssistantClient) FederatedLogin(ctx context.Context, in *FederatedLoginRequest, opts ...grpc.CallOption) (*SessionResponse, error) {
	return invoke[SessionResponse](ctx, c.cc, MethodFederatedLogin, in, opts)
}

func (c *AssistantClient) SendMessage(ctx context.Context, in *SendMessageRequest, opts ...grpc.CallOption) (*SendMessageResponse, error) {
	return invoke[SendMessageResponse](ctx, c.cc, MethodSendMessage, in, opts)
}

func (c *AssistantClient) ListConversations(ctx context.Context, in *ListConversationsRequest, opts ...grpc.CallOption) (*ListConversationsResponse, error) {
	return invoke[ListConversationsResponse](ctx, c.cc, MethodListConversations, in, opts)
}

func (c *AssistantClient) GetConversation(ctx context.Context, in *ThreadRequest, opts ...grpc.CallOption) (*GetConversationResponse, error) {
	return invoke[GetConversationResponse](ctx, c.cc, MethodGetConversation, in, opts)
}

func (c *AssistantClient) CreateConversation(ctx context.Context, in *CreateConversationRequest, opts ...grpc.CallOption) (*ThreadResponse, error) {
	return invoke[ThreadResponse](ctx, c.cc, MethodCreateConversation, in, opts)
}

func (c *AssistantClient) RenameConversation(ctx context.Context, in *RenameConversationRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodRenameConversation, in, opts)
}

func (c *AssistantClient) DeleteConversation(ctx context.Context, in *ThreadRequest, opts ...grpc.CallOption) (*Empty, error) {
	return invoke[Empty](ctx, c.cc, MethodDeleteConversation, in, opts)
}

func (c *AssistantClient) GetProfile(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodGetProfile, in, opts)
}

func (c *AssistantClient) PutProfile(ctx context.Context, in *PutProfileRequest, opts ...grpc.CallOption) (*ProfileResponse, error) {
	return invoke[ProfileResponse](ctx, c.cc, MethodPutProfile, in, opts)
}
