package grpc

import (
	"context"

	"github.com/dmitrijs2005/jobassistant/internal/api"
	"github.com/dmitrijs2005/jobassistant/internal/server/models"
	"github.com/dmitrijs2005/jobassistant/internal/server/services"
)

func toAccount(a *models.PublicAccount) *api.Account {
	if a == nil {
		return nil
	}
	return &api.Account{ID: a.ID, Username: a.Username, Email: a.Email, AuthProvider: a.Provider}
}

func toSession(s *services.Session) *api.SessionResponse {
	return &api.SessionResponse{
		AccessToken:  s.AccessToken,
		RefreshToken: s.RefreshToken,
		TokenType:    s.TokenType,
		User:         toAccount(s.Account),
	}
}

func toThread(c *models.Conversation) api.Thread {
	return api.Thread{ID: c.ID, Title: c.Title, CreatedAt: c.CreatedAt, UpdatedAt: c.UpdatedAt}
}

func (s *GRPCServer) Signup(ctx context.Context, req *api.SignupRequest) (*api.SessionResponse, error) {
	session, err := s.sessions.Signup(ctx, req.Username, req.Email, req.Password)
	if err != nil {
		s.logger.Debug(ctx, "signup failed", "error", err)
		return nil, signupStatus(err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) Login(ctx context.Context, req *api.LoginRequest) (*api.SessionResponse, error) {
	session, err := s.sessions.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, loginStatus(err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) Refresh(ctx context.Context, req *api.RefreshRequest) (*api.SessionResponse, error) {
	session, err := s.sessions.Refresh(ctx, req.RefreshToken)
	if err != nil {
		return nil, toStatus(err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) Logout(ctx context.Context, _ *api.Empty) (*api.RevokedResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.sessions.Logout(ctx, accountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RevokedResponse{Revoked: n}, nil
}

func (s *GRPCServer) Me(ctx context.Context, _ *api.Empty) (*api.Account, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	account, err := s.sessions.Me(ctx, accountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toAccount(account), nil
}

func (s *GRPCServer) ChangePassword(ctx context.Context, req *api.ChangePasswordRequest) (*api.RevokedResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	n, err := s.sessions.ChangePassword(ctx, accountID, req.CurrentPassword, req.NewPassword)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.RevokedResponse{Revoked: n}, nil
}

func (s *GRPCServer) Deactivate(ctx context.Context, _ *api.Empty) (*api.Empty, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Deactivate(ctx, accountID); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) FederatedLoginURL(ctx context.Context, req *api.FederatedLoginURLRequest) (*api.FederatedLoginURLResponse, error) {
	u, err := s.federated.LoginURL(req.State)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.FederatedLoginURLResponse{URL: u}, nil
}

func (s *GRPCServer) FederatedLogin(ctx context.Context, req *api.FederatedLoginRequest) (*api.SessionResponse, error) {
	session, err := s.federated.Login(ctx, req.Code, req.RedirectURI)
	if err != nil {
		return nil, toStatus(err)
	}
	return toSession(session), nil
}

func (s *GRPCServer) SendMessage(ctx context.Context, req *api.SendMessageRequest) (*api.SendMessageResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	res, err := s.conversations.AppendTurn(ctx, accountID, req.ThreadID, req.Message, req.Context)
	if err != nil {
		s.logger.Warn(ctx, "send message failed", "account_id", accountID, "error", err)
		return nil, toStatus(err)
	}

	resp := &api.SendMessageResponse{
		ThreadID:    res.ConversationID,
		Intent:      res.Intent,
		Response:    res.Response,
		Attachments: make([]api.Attachment, 0, len(res.Attachments)),
	}
	for _, a := range res.Attachments {
		resp.Attachments = append(resp.Attachments, api.Attachment{Type: a.Type, Content: a.Content, Filename: a.Filename})
	}
	if res.Evicted != nil {
		resp.EvictedThreadID = res.Evicted.ConversationID
	}
	return resp, nil
}

func (s *GRPCServer) ListConversations(ctx context.Context, req *api.ListConversationsRequest) (*api.ListConversationsResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.conversations.List(ctx, accountID, req.Limit)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.ListConversationsResponse{
		Threads:      make([]api.Thread, 0, len(list.Conversations)),
		StorageUsed:  list.StorageUsed,
		StorageLimit: list.StorageLimit,
	}
	for _, c := range list.Conversations {
		resp.Threads = append(resp.Threads, toThread(c))
	}
	return resp, nil
}

func (s *GRPCServer) GetConversation(ctx context.Context, req *api.ThreadRequest) (*api.GetConversationResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	detail, err := s.conversations.Get(ctx, accountID, req.ThreadID)
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &api.GetConversationResponse{
		Thread:   toThread(detail.Conversation),
		Messages: make([]api.Message, 0, len(detail.Entries)),
	}
	for _, e := range detail.Entries {
		resp.Messages = append(resp.Messages, api.Message{
			ID:          e.ID,
			Role:        string(e.Role),
			Content:     e.Content,
			Intent:      e.Intent,
			Attachments: e.Attachments,
			CreatedAt:   e.CreatedAt,
		})
	}
	return resp, nil
}

func (s *GRPCServer) CreateConversation(ctx context.Context, req *api.CreateConversationRequest) (*api.ThreadResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	c, err := s.conversations.Create(ctx, accountID, req.Title)
	if err != nil {
		return nil, toStatus(err)
	}
	return &api.ThreadResponse{Thread: toThread(c)}, nil
}

func (s *GRPCServer) RenameConversation(ctx context.Context, req *api.RenameConversationRequest) (*api.Empty, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Rename(ctx, accountID, req.ThreadID, req.Title); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func (s *GRPCServer) DeleteConversation(ctx context.Context, req *api.ThreadRequest) (*api.Empty, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.conversations.Delete(ctx, accountID, req.ThreadID); err != nil {
		return nil, toStatus(err)
	}
	return &api.Empty{}, nil
}

func toProfile(p *models.Profile) *api.ProfileResponse {
	resp := &api.ProfileResponse{Profile: p.Data}
	if !p.UpdatedAt.IsZero() {
		updated := p.UpdatedAt
		resp.UpdatedAt = &updated
	}
	return resp
}

func (s *GRPCServer) GetProfile(ctx context.Context, _ *api.Empty) (*api.ProfileResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Get(ctx, accountID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(p), nil
}

func (s *GRPCServer) PutProfile(ctx context.Context, req *api.PutProfileRequest) (*api.ProfileResponse, error) {
	accountID, err := accountIDFromContext(ctx)
	if err != nil {
		return nil, err
	}
	p, err := s.profiles.Put(ctx, accountID, req.Profile)
	if err != nil {
		return nil, toStatus(err)
	}
	return toProfile(p), nil
}
