package user

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"langlink/internal/common"
	"langlink/internal/dbmysql"
)

const testActorID uint64 = 42

// testAuth stands in for the JWT middleware and injects a fixed actor id.
func testAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r.WithContext(common.ContextWithUserID(r.Context(), testActorID)))
	})
}

func newTestServer(t *testing.T) (*MockUserService, *MockFriendService, *mux.Router) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	mockUserSvc := NewMockUserService(ctrl)
	mockFriendSvc := NewMockFriendService(ctrl)

	log := logrus.New()
	log.SetOutput(io.Discard)

	router := mux.NewRouter()
	NewHandler(mockUserSvc, mockFriendSvc, log).RegisterRoutes(router, testAuth)
	return mockUserSvc, mockFriendSvc, router
}

func doRequest(router *mux.Router, method, path string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandler_Signup(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		userSvc, _, router := newTestServer(t)
		userSvc.EXPECT().RegisterUser(gomock.Any(), "Alice Moreau", "alice@example.com", "password123").
			Return(&dbmysql.User{UserID: 1, FullName: "Alice Moreau"}, "tok", nil)

		w := doRequest(router, http.MethodPost, "/api/auth/signup",
			signupRequest{FullName: "Alice Moreau", Email: "alice@example.com", Password: "password123"})
		require.Equal(t, http.StatusCreated, w.Code)

		var resp authResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Equal(t, "tok", resp.Token)
		require.Equal(t, uint64(1), resp.User.UserID)
	})

	t.Run("validation failure", func(t *testing.T) {
		userSvc, _, router := newTestServer(t)
		userSvc.EXPECT().RegisterUser(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, "", common.ErrValidation)

		w := doRequest(router, http.MethodPost, "/api/auth/signup", signupRequest{})
		require.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_Login(t *testing.T) {
	t.Run("ok", func(t *testing.T) {
		userSvc, _, router := newTestServer(t)
		userSvc.EXPECT().LoginUser(gomock.Any(), "alice@example.com", "password123").
			Return(&dbmysql.User{UserID: 1}, "tok", nil)

		w := doRequest(router, http.MethodPost, "/api/auth/login",
			loginRequest{Email: "alice@example.com", Password: "password123"})
		require.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad credentials", func(t *testing.T) {
		userSvc, _, router := newTestServer(t)
		userSvc.EXPECT().LoginUser(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, "", common.ErrInvalidCredentials)

		w := doRequest(router, http.MethodPost, "/api/auth/login",
			loginRequest{Email: "alice@example.com", Password: "nope"})
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func TestHandler_SendFriendRequest(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		setup    func(friendSvc *MockFriendService)
		wantCode int
	}{
		{
			name: "created",
			path: "/api/users/friend-request/7",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, uint64(7)).
					Return(&dbmysql.FriendRequest{ID: 1, SenderID: testActorID, RecipientID: 7, Status: dbmysql.RequestStatusPending}, nil)
			},
			wantCode: http.StatusCreated,
		},
		{
			name:     "invalid id",
			path:     "/api/users/friend-request/abc",
			setup:    func(*MockFriendService) {},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "self request",
			path: "/api/users/friend-request/42",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, testActorID).
					Return(nil, common.ErrSelfRequest)
			},
			wantCode: http.StatusBadRequest,
		},
		{
			name: "recipient missing",
			path: "/api/users/friend-request/7",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, uint64(7)).
					Return(nil, common.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "duplicate request",
			path: "/api/users/friend-request/7",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, uint64(7)).
					Return(nil, common.ErrDuplicateRequest)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "already friends",
			path: "/api/users/friend-request/7",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, uint64(7)).
					Return(nil, common.ErrAlreadyFriends)
			},
			wantCode: http.StatusConflict,
		},
		{
			name: "infrastructure failure is masked",
			path: "/api/users/friend-request/7",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().SendRequest(gomock.Any(), testActorID, uint64(7)).
					Return(nil, errors.New("dial tcp: connection refused"))
			},
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, friendSvc, router := newTestServer(t)
			tc.setup(friendSvc)

			w := doRequest(router, http.MethodPost, tc.path, nil)
			require.Equal(t, tc.wantCode, w.Code)

			if tc.wantCode == http.StatusInternalServerError {
				var resp messageResponse
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				require.Equal(t, "internal server error", resp.Message)
			}
		})
	}
}

func TestHandler_AcceptFriendRequest(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(friendSvc *MockFriendService)
		wantCode int
	}{
		{
			name: "accepted",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().AcceptRequest(gomock.Any(), testActorID, uint64(10)).Return(nil)
			},
			wantCode: http.StatusOK,
		},
		{
			name: "not the recipient",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().AcceptRequest(gomock.Any(), testActorID, uint64(10)).
					Return(common.ErrForbidden)
			},
			wantCode: http.StatusForbidden,
		},
		{
			name: "unknown request",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().AcceptRequest(gomock.Any(), testActorID, uint64(10)).
					Return(common.ErrNotFound)
			},
			wantCode: http.StatusNotFound,
		},
		{
			name: "already accepted",
			setup: func(friendSvc *MockFriendService) {
				friendSvc.EXPECT().AcceptRequest(gomock.Any(), testActorID, uint64(10)).
					Return(common.ErrInvalidState)
			},
			wantCode: http.StatusConflict,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, friendSvc, router := newTestServer(t)
			tc.setup(friendSvc)

			w := doRequest(router, http.MethodPut, "/api/users/friend-request/10/accept", nil)
			require.Equal(t, tc.wantCode, w.Code)
		})
	}
}

func TestHandler_FriendRequests(t *testing.T) {
	_, friendSvc, router := newTestServer(t)
	friendSvc.EXPECT().ListFriendRequests(gomock.Any(), testActorID).Return(
		[]*dbmysql.FriendRequest{{ID: 1, SenderID: 3, RecipientID: testActorID, Status: dbmysql.RequestStatusPending}},
		[]*dbmysql.FriendRequest{{ID: 2, SenderID: testActorID, RecipientID: 4, Status: dbmysql.RequestStatusAccepted}},
		nil)

	w := doRequest(router, http.MethodGet, "/api/users/friend-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp friendRequestsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.IncomingRequests, 1)
	require.Len(t, resp.AcceptedRequests, 1)
	require.Equal(t, dbmysql.RequestStatusPending, resp.IncomingRequests[0].Status)
}

func TestHandler_OutgoingFriendRequests(t *testing.T) {
	_, friendSvc, router := newTestServer(t)
	friendSvc.EXPECT().ListOutgoingRequests(gomock.Any(), testActorID).Return(
		[]*dbmysql.FriendRequest{{ID: 7, SenderID: testActorID, RecipientID: 2, Status: dbmysql.RequestStatusPending}}, nil)

	w := doRequest(router, http.MethodGet, "/api/users/outgoing-friend-requests", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []*dbmysql.FriendRequest
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint64(7), resp[0].ID)
}

func TestHandler_RecommendedUsers(t *testing.T) {
	userSvc, _, router := newTestServer(t)
	userSvc.EXPECT().RecommendUsers(gomock.Any(), testActorID).Return(
		[]*dbmysql.User{{UserID: 4, FullName: "Dana Okafor", IsOnboarded: true}}, nil)

	w := doRequest(router, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp []*dbmysql.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp, 1)
	require.Equal(t, uint64(4), resp[0].UserID)
}

func TestHandler_Friends(t *testing.T) {
	userSvc, _, router := newTestServer(t)
	userSvc.EXPECT().ListFriends(gomock.Any(), testActorID).Return(
		[]*dbmysql.User{{UserID: 2, FullName: "Bob Tanaka"}}, nil)

	w := doRequest(router, http.MethodGet, "/api/users/friends", nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestHandler_Onboarding(t *testing.T) {
	userSvc, _, router := newTestServer(t)
	in := OnboardingInput{
		FullName:         "Alice Moreau",
		Bio:              "bonjour",
		NativeLanguage:   "french",
		LearningLanguage: "japanese",
		Location:         "Lyon",
	}
	userSvc.EXPECT().OnboardUser(gomock.Any(), testActorID, in).
		Return(&dbmysql.User{UserID: testActorID, IsOnboarded: true}, nil)

	w := doRequest(router, http.MethodPost, "/api/auth/onboarding", in)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dbmysql.User
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.IsOnboarded)
}
