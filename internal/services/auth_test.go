package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/models"
	"github.com/sbilibin2017/gw-shoppinglist-api/internal/services"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		username     string
		password     string
		question     string
		answer       string
		existingUser *models.UserDB
		readerErr    error
		writerErr    error
		wantID       int64
		wantErr      error
	}{
		{
			name:     "successful registration",
			username: "alice",
			password: "secret123",
			question: "favourite colour?",
			answer:   "blue",
			wantID:   1,
		},
		{
			name:     "username is case-folded",
			username: " Alice ",
			password: "secret123",
			question: "favourite colour?",
			answer:   "blue",
			wantID:   2,
		},
		{
			name:     "missing username",
			username: "",
			password: "secret123",
			question: "favourite colour?",
			answer:   "blue",
			wantErr:  services.ErrMissingCredentials,
		},
		{
			name:     "missing security question",
			username: "bob",
			password: "secret123",
			question: "",
			answer:   "blue",
			wantErr:  services.ErrMissingSecurityQA,
		},
		{
			name:     "weak password",
			username: "bob",
			password: "abc",
			question: "favourite colour?",
			answer:   "blue",
			wantErr:  services.ErrWeakPassword,
		},
		{
			name:         "username taken",
			username:     "bob",
			password:     "secret123",
			question:     "favourite colour?",
			answer:       "blue",
			existingUser: &models.UserDB{ID: 5, Username: "bob"},
			wantErr:      services.ErrUsernameTaken,
		},
		{
			name:      "reader error",
			username:  "eve",
			password:  "secret123",
			question:  "favourite colour?",
			answer:    "blue",
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:      "writer error",
			username:  "carol",
			password:  "secret123",
			question:  "favourite colour?",
			answer:    "blue",
			writerErr: errors.New("save error"),
			wantErr:   errors.New("save error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockToken := services.NewMockTokenGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockToken, nil, nil)

			normalized := services.NormalizeUsername(tt.username)

			validInput := normalized != "" && tt.password != "" &&
				tt.question != "" && tt.answer != "" &&
				tt.wantErr != services.ErrWeakPassword

			if validInput {
				mockReader.EXPECT().
					GetByUsername(gomock.Any(), normalized).
					Return(tt.existingUser, tt.readerErr)

				if tt.existingUser == nil && tt.readerErr == nil {
					mockWriter.EXPECT().
						Save(gomock.Any(), normalized, gomock.Any(), tt.question, tt.answer).
						Return(tt.wantID, tt.writerErr)
				}
			}

			id, err := svc.Register(context.Background(), tt.username, tt.password, tt.question, tt.answer)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Zero(t, id)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantID, id)
			}
		})
	}
}

func TestAuthService_RegisterHashesPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockReader := services.NewMockUserReader(ctrl)
	mockWriter := services.NewMockUserWriter(ctrl)

	svc := services.NewAuthService(mockReader, mockWriter, nil, nil, nil)

	mockReader.EXPECT().
		GetByUsername(gomock.Any(), "alice").
		Return(nil, nil)

	var storedHash string
	mockWriter.EXPECT().
		Save(gomock.Any(), "alice", gomock.Any(), "favourite colour?", "blue").
		DoAndReturn(func(_ context.Context, _, hash, _, _ string) (int64, error) {
			storedHash = hash
			return 1, nil
		})

	_, err := svc.Register(context.Background(), "alice", "secret123", "favourite colour?", "blue")
	assert.NoError(t, err)
	assert.NotEqual(t, "secret123", storedHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("secret123")))
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	password := "secret123"
	hashed, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	tests := []struct {
		name      string
		username  string
		password  string
		user      *models.UserDB
		readerErr error
		tokenErr  error
		wantToken string
		wantErr   error
	}{
		{
			name:      "successful login",
			username:  "alice",
			password:  password,
			user:      &models.UserDB{ID: 1, Username: "alice", PasswordHash: string(hashed)},
			wantToken: "token123",
		},
		{
			name:     "missing credentials",
			username: "alice",
			password: "",
			wantErr:  services.ErrMissingCredentials,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: password,
			wantErr:  services.ErrUserDoesNotExist,
		},
		{
			name:     "wrong password",
			username: "alice",
			password: "wrongpass",
			user:     &models.UserDB{ID: 1, Username: "alice", PasswordHash: string(hashed)},
			wantErr:  services.ErrInvalidCredentials,
		},
		{
			name:      "reader error",
			username:  "alice",
			password:  password,
			readerErr: errors.New("db error"),
			wantErr:   errors.New("db error"),
		},
		{
			name:     "token error",
			username: "alice",
			password: password,
			user:     &models.UserDB{ID: 1, Username: "alice", PasswordHash: string(hashed)},
			tokenErr: errors.New("sign error"),
			wantErr:  errors.New("sign error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			mockToken := services.NewMockTokenGenerator(ctrl)

			svc := services.NewAuthService(mockReader, mockWriter, mockToken, nil, nil)

			if tt.password != "" {
				mockReader.EXPECT().
					GetByUsername(gomock.Any(), tt.username).
					Return(tt.user, tt.readerErr)
			}
			if tt.user != nil && tt.password == password {
				mockToken.EXPECT().
					Generate(gomock.Any(), tt.user.ID).
					Return(tt.wantToken, tt.tokenErr)
			}

			token, err := svc.Login(context.Background(), tt.username, tt.password)
			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())
				assert.Empty(t, token)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.wantToken, token)
			}
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("blank password", func(t *testing.T) {
		svc := services.NewAuthService(nil, nil, nil, nil, nil)
		err := svc.ChangePassword(context.Background(), 1, "")
		assert.ErrorIs(t, err, services.ErrBlankPassword)
	})

	t.Run("success", func(t *testing.T) {
		mockWriter := services.NewMockUserWriter(ctrl)
		svc := services.NewAuthService(nil, mockWriter, nil, nil, nil)

		var storedHash string
		mockWriter.EXPECT().
			UpdatePassword(gomock.Any(), int64(1), gomock.Any()).
			DoAndReturn(func(_ context.Context, _ int64, hash string) error {
				storedHash = hash
				return nil
			})

		err := svc.ChangePassword(context.Background(), 1, "newsecret")
		assert.NoError(t, err)
		assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(storedHash), []byte("newsecret")))
	})

	t.Run("writer error", func(t *testing.T) {
		mockWriter := services.NewMockUserWriter(ctrl)
		svc := services.NewAuthService(nil, mockWriter, nil, nil, nil)

		mockWriter.EXPECT().
			UpdatePassword(gomock.Any(), int64(1), gomock.Any()).
			Return(errors.New("db error"))

		err := svc.ChangePassword(context.Background(), 1, "newsecret")
		assert.EqualError(t, err, "db error")
	})
}

func TestAuthService_GetSecurityQuestion(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	t.Run("cache hit", func(t *testing.T) {
		mockCache := services.NewMockQuestionCache(ctrl)
		svc := services.NewAuthService(nil, nil, nil, mockCache, nil)

		mockCache.EXPECT().
			Get(gomock.Any(), "alice").
			Return("favourite colour?", nil)

		question, err := svc.GetSecurityQuestion(context.Background(), "Alice")
		assert.NoError(t, err)
		assert.Equal(t, "favourite colour?", question)
	})

	t.Run("cache miss falls back to store and fills cache", func(t *testing.T) {
		mockReader := services.NewMockUserReader(ctrl)
		mockCache := services.NewMockQuestionCache(ctrl)
		svc := services.NewAuthService(mockReader, nil, nil, mockCache, nil)

		mockCache.EXPECT().Get(gomock.Any(), "alice").Return("", nil)
		mockReader.EXPECT().
			GetByUsername(gomock.Any(), "alice").
			Return(&models.UserDB{ID: 1, Username: "alice", SecurityQuestion: "favourite colour?"}, nil)
		mockCache.EXPECT().Set(gomock.Any(), "alice", "favourite colour?").Return(nil)

		question, err := svc.GetSecurityQuestion(context.Background(), "alice")
		assert.NoError(t, err)
		assert.Equal(t, "favourite colour?", question)
	})

	t.Run("cache errors are ignored", func(t *testing.T) {
		mockReader := services.NewMockUserReader(ctrl)
		mockCache := services.NewMockQuestionCache(ctrl)
		svc := services.NewAuthService(mockReader, nil, nil, mockCache, nil)

		mockCache.EXPECT().Get(gomock.Any(), "alice").Return("", errors.New("redis down"))
		mockReader.EXPECT().
			GetByUsername(gomock.Any(), "alice").
			Return(&models.UserDB{ID: 1, Username: "alice", SecurityQuestion: "favourite colour?"}, nil)
		mockCache.EXPECT().Set(gomock.Any(), "alice", "favourite colour?").Return(errors.New("redis down"))

		question, err := svc.GetSecurityQuestion(context.Background(), "alice")
		assert.NoError(t, err)
		assert.Equal(t, "favourite colour?", question)
	})

	t.Run("unknown user", func(t *testing.T) {
		mockReader := services.NewMockUserReader(ctrl)
		svc := services.NewAuthService(mockReader, nil, nil, nil, nil)

		mockReader.EXPECT().
			GetByUsername(gomock.Any(), "ghost").
			Return(nil, nil)

		question, err := svc.GetSecurityQuestion(context.Background(), "ghost")
		assert.ErrorIs(t, err, services.ErrUserDoesNotExist)
		assert.Empty(t, question)
	})

	t.Run("blank username", func(t *testing.T) {
		svc := services.NewAuthService(nil, nil, nil, nil, nil)

		question, err := svc.GetSecurityQuestion(context.Background(), "   ")
		assert.ErrorIs(t, err, services.ErrUserDoesNotExist)
		assert.Empty(t, question)
	})
}

func TestAuthService_ResetPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	user := &models.UserDB{ID: 1, Username: "alice", SecurityAnswer: "blue"}

	tests := []struct {
		name     string
		username string
		password string
		answer   string
		user     *models.UserDB
		wantErr  error
	}{
		{
			name:     "successful reset",
			username: "alice",
			password: "newsecret",
			answer:   "blue",
			user:     user,
		},
		{
			name:     "answer matches case-insensitively",
			username: "alice",
			password: "newsecret",
			answer:   " BLUE ",
			user:     user,
		},
		{
			name:     "unknown user",
			username: "ghost",
			password: "newsecret",
			answer:   "blue",
			wantErr:  services.ErrUserDoesNotExist,
		},
		{
			name:     "weak password",
			username: "alice",
			password: "abc",
			answer:   "blue",
			user:     user,
			wantErr:  services.ErrWeakPassword,
		},
		{
			name:     "answer mismatch",
			username: "alice",
			password: "newsecret",
			answer:   "green",
			user:     user,
			wantErr:  services.ErrAnswerMismatch,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockReader := services.NewMockUserReader(ctrl)
			mockWriter := services.NewMockUserWriter(ctrl)
			svc := services.NewAuthService(mockReader, mockWriter, nil, nil, nil)

			mockReader.EXPECT().
				GetByUsername(gomock.Any(), tt.username).
				Return(tt.user, nil)

			if tt.wantErr == nil {
				mockWriter.EXPECT().
					UpdatePassword(gomock.Any(), tt.user.ID, gomock.Any()).
					Return(nil)
			}

			err := svc.ResetPassword(context.Background(), tt.username, tt.password, tt.answer)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
