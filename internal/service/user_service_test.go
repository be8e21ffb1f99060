package service

import (
	"context"
	"errors"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
	"testing"
)

func TestEnsureBootstrapAdmin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := env.userSvc.EnsureBootstrapAdmin(ctx); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
	}

	users, err := env.userSvc.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(users) != 1 || users[0].Username != "admin" || users[0].Role != model.Admin {
		t.Fatalf("users = %+v, want a single admin", users)
	}

	if _, err := env.auth.Authenticate(ctx, "admin", "admin-pass"); err != nil {
		t.Errorf("admin cannot log in: %v", err)
	}
}

func TestBootstrapAdminCannotBeDeleted(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	if err := env.userSvc.EnsureBootstrapAdmin(ctx); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	admin, err := env.users.FindByUsername(ctx, "admin")
	if err != nil {
		t.Fatalf("find admin: %v", err)
	}

	if err := env.userSvc.Delete(ctx, admin.ID); !errors.Is(err, util.ErrProtectedAccount) {
		t.Fatalf("delete admin err = %v, want ErrProtectedAccount", err)
	}
	if _, err := env.users.FindByID(ctx, admin.ID); err != nil {
		t.Errorf("admin was removed: %v", err)
	}
}

func TestDeleteUserRemovesOwnedRows(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	if _, err := env.ledger.Save(ctx, user.ID, 1, ProgressInput{Completed: boolPtr(true), Answers: model.AnswerMap{}}); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if _, err := env.statsSvc.AddTime(ctx, user.ID, 60); err != nil {
		t.Fatalf("add time: %v", err)
	}

	if err := env.userSvc.Delete(ctx, user.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := env.users.FindByID(ctx, user.ID); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("user still present: %v", err)
	}
	records, _ := env.progress.ListByUser(ctx, user.ID)
	if len(records) != 0 {
		t.Errorf("progress left behind: %d rows", len(records))
	}
	stats, _ := env.stats.Get(ctx, user.ID)
	if stats.TimeSpentSeconds != 0 {
		t.Errorf("statistics left behind: %+v", stats)
	}
	if err := env.userSvc.Delete(ctx, user.ID); !errors.Is(err, util.ErrUserNotFound) {
		t.Errorf("second delete err = %v", err)
	}
}

func TestAccountCreationAndLogin(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "driver1")

	if _, err := env.auth.CreateAccount(ctx, NewAccount{Username: "driver1", Password: "another"}); !errors.Is(err, util.ErrUsernameTaken) {
		t.Errorf("duplicate username err = %v, want ErrUsernameTaken", err)
	}
	if _, err := env.auth.CreateAccount(ctx, NewAccount{Username: "short", Password: "abc"}); util.KindOf(err) != util.KindValidation {
		t.Errorf("short password kind = %q", util.KindOf(err))
	}

	result, err := env.auth.Login(ctx, "driver1", "secret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if result.Token == "" || result.User.Username != "driver1" || result.Settings.Language != model.DefaultSettingsLanguage {
		t.Errorf("login result = %+v", result)
	}

	user, claims, err := env.auth.ResolveToken(ctx, result.Token)
	if err != nil {
		t.Fatalf("resolve token: %v", err)
	}
	if user.Username != "driver1" || claims.Role != model.RoleUser {
		t.Errorf("resolved %s with role %s", user.Username, claims.Role)
	}

	// 未知用户和错误密码返回同一个错误
	_, errUnknown := env.auth.Login(ctx, "nobody", "secret-pass")
	_, errWrong := env.auth.Login(ctx, "driver1", "wrong-pass")
	if errUnknown != util.ErrInvalidCredentials || errWrong != util.ErrInvalidCredentials {
		t.Errorf("unknown = %v, wrong password = %v", errUnknown, errWrong)
	}
}

func TestResolveTokenOfDeletedAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.createUser(t, "driver1")

	result, err := env.auth.Login(ctx, "driver1", "secret-pass")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if err := env.userSvc.Delete(ctx, result.User.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	if _, _, err := env.auth.ResolveToken(ctx, result.Token); !errors.Is(err, util.ErrInvalidToken) {
		t.Errorf("err = %v, want ErrInvalidToken", err)
	}
	if _, _, err := env.auth.ResolveToken(ctx, "not-a-jwt"); !errors.Is(err, util.ErrInvalidToken) {
		t.Errorf("garbage token err = %v", err)
	}
}

func TestSettingsAndPassword(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "driver1")
	ctx := context.Background()

	lang := "uzk"
	settings, err := env.auth.UpdateSettings(ctx, user.ID, SettingsInput{Language: &lang})
	if err != nil {
		t.Fatalf("update settings: %v", err)
	}
	if settings.Language != "uzk" || !settings.Notifications {
		t.Errorf("settings = %+v", settings)
	}
	bad := "en"
	if _, err := env.auth.UpdateSettings(ctx, user.ID, SettingsInput{Language: &bad}); util.KindOf(err) != util.KindValidation {
		t.Errorf("unsupported language kind = %q", util.KindOf(err))
	}

	if err := env.auth.ChangePassword(ctx, user.ID, "wrong", "new-pass"); !errors.Is(err, util.ErrWrongPassword) {
		t.Errorf("wrong old password err = %v", err)
	}
	if err := env.auth.ChangePassword(ctx, user.ID, "secret-pass", "new-pass"); err != nil {
		t.Fatalf("change password: %v", err)
	}
	if _, err := env.auth.Authenticate(ctx, "driver1", "new-pass"); err != nil {
		t.Errorf("login with new password: %v", err)
	}
}

func TestRegisterRespectsSignupSwitch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, NewAccount{Username: "self", Password: "secret", Role: model.Admin})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Role != model.RoleUser {
		t.Errorf("self registration granted role %s", user.Role)
	}

	env.cfg.Auth.AllowSignup = false
	if _, err := env.auth.Register(ctx, NewAccount{Username: "other", Password: "secret"}); !errors.Is(err, util.ErrSignupDisabled) {
		t.Errorf("err = %v, want ErrSignupDisabled", err)
	}
}
