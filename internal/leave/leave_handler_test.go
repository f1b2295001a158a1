package leave_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"personnel-management/internal/leave"
	leaveerrors "personnel-management/internal/leave/errors"
	"personnel-management/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiMeta struct {
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
}

type apiEnvelope struct {
	Ok    bool            `json:"ok"`
	Data  json.RawMessage `json:"data"`
	Meta  *apiMeta        `json:"meta"`
	Error *apiError       `json:"error"`
}

func decodeEnvelope(t *testing.T, body []byte) apiEnvelope {
	t.Helper()
	var env apiEnvelope
	err := json.Unmarshal(body, &env)
	assert.NoError(t, err)
	return env
}

type fakeLeaveService struct {
	requestLeaveFn   func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error)
	decideFn         func(ctx context.Context, requestID string, decision leave.Decision) (leave.LeaveResponse, error)
	currentBalanceFn func(ctx context.Context, userID string) (leave.BalanceResponse, error)
	ensureBalanceFn  func(ctx context.Context, userID string) (leave.BalanceResponse, error)
	getByIDFn        func(ctx context.Context, actorID, id string, canReadAll bool) (leave.LeaveResponse, error)
	listByUserFn     func(ctx context.Context, userID string) ([]leave.LeaveResponse, error)
}

func (f *fakeLeaveService) RequestLeave(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
	return f.requestLeaveFn(ctx, userID, req)
}
func (f *fakeLeaveService) Decide(ctx context.Context, requestID string, decision leave.Decision) (leave.LeaveResponse, error) {
	return f.decideFn(ctx, requestID, decision)
}
func (f *fakeLeaveService) CurrentBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	return f.currentBalanceFn(ctx, userID)
}
func (f *fakeLeaveService) EnsureBalance(ctx context.Context, userID string) (leave.BalanceResponse, error) {
	return f.ensureBalanceFn(ctx, userID)
}
func (f *fakeLeaveService) GetByID(ctx context.Context, actorID, id string, canReadAll bool) (leave.LeaveResponse, error) {
	return f.getByIDFn(ctx, actorID, id, canReadAll)
}
func (f *fakeLeaveService) ListByUser(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
	return f.listByUserFn(ctx, userID)
}

func newJSONContext(method, target, body string) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	return c, w
}

func TestLeaveHandler_Create(t *testing.T) {
	t.Run("success uses user_id_validated", func(t *testing.T) {
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			requestLeaveFn: func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, userID)
				assert.Equal(t, "ANNUAL", req.LeaveType)
				return leave.LeaveResponse{
					ID:        uuid.New().String(),
					UserID:    userID,
					LeaveType: req.LeaveType,
					StartDate: req.StartDate,
					EndDate:   req.EndDate,
					TotalDays: 2,
					Status:    leave.StatusPending,
				}, nil
			},
		}

		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves", `{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-11"}`)
		c.Set("user_id", "ignored")
		c.Set("user_id_validated", actorID)

		h.Create(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.True(t, env.Ok)
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, actorID, got.UserID)
		assert.Equal(t, 2, got.TotalDays)
		assert.Equal(t, leave.StatusPending, got.Status)
	})

	t.Run("negative validation error", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodPost, "/leaves", `{}`)

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.False(t, env.Ok)
		assert.Equal(t, "VALIDATION_ERROR", env.Error.Code)
	})

	t.Run("negative insufficient balance", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestLeaveFn: func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrInsufficientBalance
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves", `{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-20"}`)
		c.Set("user_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, leaveerrors.CodeInsufficientBalance, env.Error.Code)
	})

	t.Run("negative persistence failure is 503", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestLeaveFn: func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, apperror.WrapAs(errors.New("dial tcp: refused"), leaveerrors.ErrPersistenceFailure)
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves", `{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-11"}`)
		c.Set("user_id", uuid.New().String())

		h.Create(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.CodeServiceUnavailable, env.Error.Code)
		assert.NotContains(t, w.Body.String(), "refused")
	})

	t.Run("negative unknown error is 500", func(t *testing.T) {
		svc := &fakeLeaveService{
			requestLeaveFn: func(ctx context.Context, userID string, req leave.CreateLeaveRequest) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, errors.New("boom")
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPost, "/leaves", `{"leave_type":"ANNUAL","start_date":"2026-03-10","end_date":"2026-03-11"}`)

		h.Create(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, apperror.ErrInternal.Code, env.Error.Code)
		assert.Equal(t, apperror.ErrInternal.Message, env.Error.Message)
	})
}

func TestLeaveHandler_GetAll(t *testing.T) {
	actorID := uuid.New().String()
	items := make([]leave.LeaveResponse, 0, 5)
	for i := 0; i < 5; i++ {
		items = append(items, leave.LeaveResponse{ID: uuid.New().String(), UserID: actorID, Status: leave.StatusPending})
	}

	t.Run("paginates newest first list", func(t *testing.T) {
		svc := &fakeLeaveService{
			listByUserFn: func(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
				assert.Equal(t, actorID, userID)
				return items, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=2&page_size=2", nil)
		c.Set("user_id", actorID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got []leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Len(t, got, 2)
		assert.Equal(t, items[2].ID, got[0].ID)
		assert.Equal(t, int64(5), env.Meta.Total)
		assert.Equal(t, 3, env.Meta.TotalPages)
		assert.Equal(t, 2, env.Meta.Page)
	})

	t.Run("page past the end is empty", func(t *testing.T) {
		svc := &fakeLeaveService{
			listByUserFn: func(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
				return items, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves?page=9", nil)
		c.Set("user_id", actorID)

		h.GetAll(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.JSONEq(t, `[]`, string(env.Data))
	})

	t.Run("negative service error", func(t *testing.T) {
		svc := &fakeLeaveService{
			listByUserFn: func(ctx context.Context, userID string) ([]leave.LeaveResponse, error) {
				return nil, errors.New("db error")
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves", nil)

		h.GetAll(c)

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

func TestLeaveHandler_GetByID(t *testing.T) {
	for _, canReadAll := range []bool{false, true} {
		leaveID := uuid.New().String()
		actorID := uuid.New().String()
		svc := &fakeLeaveService{
			getByIDFn: func(ctx context.Context, aid, id string, readAll bool) (leave.LeaveResponse, error) {
				assert.Equal(t, actorID, aid)
				assert.Equal(t, leaveID, id)
				assert.Equal(t, canReadAll, readAll)
				if !readAll {
					return leave.LeaveResponse{}, leaveerrors.ErrLeaveNotFound
				}
				return leave.LeaveResponse{ID: id}, nil
			},
		}
		h := leave.NewHandler(svc)
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/leaves/"+leaveID, nil)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}
		c.Set("user_id", actorID)
		c.Set(leave.ContextHasReadAll, canReadAll)

		h.GetByID(c)

		if canReadAll {
			assert.Equal(t, http.StatusOK, w.Code)
		} else {
			assert.Equal(t, http.StatusNotFound, w.Code)
		}
	}
}

func TestLeaveHandler_Balance(t *testing.T) {
	actorID := uuid.New().String()
	svc := &fakeLeaveService{
		currentBalanceFn: func(ctx context.Context, userID string) (leave.BalanceResponse, error) {
			assert.Equal(t, actorID, userID)
			return leave.BalanceResponse{UserID: userID, RemainingDays: 7}, nil
		},
	}
	h := leave.NewHandler(svc)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/leaves/balance", nil)
	c.Set("user_id", actorID)

	h.Balance(c)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decodeEnvelope(t, w.Body.Bytes())
	var got leave.BalanceResponse
	assert.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, 7, got.RemainingDays)
}

func TestLeaveHandler_Decide(t *testing.T) {
	leaveID := uuid.New().String()

	t.Run("approve", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id string, d leave.Decision) (leave.LeaveResponse, error) {
				assert.Equal(t, leaveID, id)
				assert.True(t, d.IsApproval())
				return leave.LeaveResponse{ID: id, Status: leave.StatusApproved}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPatch, "/leaves/"+leaveID+"/decision", `{"status":"Approved"}`)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		var got leave.LeaveResponse
		assert.NoError(t, json.Unmarshal(env.Data, &got))
		assert.Equal(t, leave.StatusApproved, got.Status)
	})

	t.Run("reject forwards reason", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id string, d leave.Decision) (leave.LeaveResponse, error) {
				assert.Equal(t, leave.StatusRejected, d.Status())
				assert.Equal(t, "busy", d.Reason())
				return leave.LeaveResponse{ID: id, Status: leave.StatusRejected}, nil
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPatch, "/", `{"status":"Rejected","reject_reason":"busy"}`)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}

		h.Decide(c)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reject without reason is checked by the service", func(t *testing.T) {
		tests := []struct {
			name     string
			svcErr   error
			wantHTTP int
			wantCode string
		}{
			{"pending request", leaveerrors.ErrMissingReason, http.StatusBadRequest, leaveerrors.CodeMissingReason},
			{"terminal request", leaveerrors.ErrAlreadyProcessed, http.StatusConflict, leaveerrors.CodeAlreadyProcessed},
			{"unknown request", leaveerrors.ErrLeaveNotFound, http.StatusNotFound, apperror.CodeNotFound},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				called := false
				svc := &fakeLeaveService{
					decideFn: func(ctx context.Context, id string, d leave.Decision) (leave.LeaveResponse, error) {
						called = true
						assert.Equal(t, leave.StatusRejected, d.Status())
						assert.Empty(t, d.Reason())
						return leave.LeaveResponse{}, tt.svcErr
					},
				}
				h := leave.NewHandler(svc)
				c, w := newJSONContext(http.MethodPatch, "/", `{"status":"Rejected"}`)
				c.Params = []gin.Param{{Key: "id", Value: leaveID}}

				h.Decide(c)

				assert.True(t, called)
				assert.Equal(t, tt.wantHTTP, w.Code)
				env := decodeEnvelope(t, w.Body.Bytes())
				assert.Equal(t, tt.wantCode, env.Error.Code)
			})
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		h := leave.NewHandler(&fakeLeaveService{})
		c, w := newJSONContext(http.MethodPatch, "/", `{"status":"Pending"}`)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}

		h.Decide(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, leaveerrors.CodeInvalidDecision, env.Error.Code)
	})

	t.Run("already processed is 409", func(t *testing.T) {
		svc := &fakeLeaveService{
			decideFn: func(ctx context.Context, id string, d leave.Decision) (leave.LeaveResponse, error) {
				return leave.LeaveResponse{}, leaveerrors.ErrAlreadyProcessed
			},
		}
		h := leave.NewHandler(svc)
		c, w := newJSONContext(http.MethodPatch, "/", `{"status":"Approved"}`)
		c.Params = []gin.Param{{Key: "id", Value: leaveID}}

		h.Decide(c)

		assert.Equal(t, http.StatusConflict, w.Code)
		env := decodeEnvelope(t, w.Body.Bytes())
		assert.Equal(t, leaveerrors.CodeAlreadyProcessed, env.Error.Code)
	})
}
