package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"voiceform/internal/model"
)

// In-memory repository fakes. Methods mirror the mongo-backed semantics:
// nil, nil on not-found, full-document replacement on update.

type fakeFormRepo struct {
	forms map[string]*model.InterviewForm
}

func newFakeFormRepo() *fakeFormRepo {
	return &fakeFormRepo{forms: make(map[string]*model.InterviewForm)}
}

func (r *fakeFormRepo) Create(_ context.Context, form *model.InterviewForm) error {
	form.CreatedAt = time.Now()
	form.UpdatedAt = time.Now()
	copied := *form
	r.forms[form.ID] = &copied
	return nil
}

func (r *fakeFormRepo) GetByID(_ context.Context, id string) (*model.InterviewForm, error) {
	form, ok := r.forms[id]
	if !ok {
		return nil, nil
	}
	copied := *form
	return &copied, nil
}

func (r *fakeFormRepo) List(_ context.Context) ([]*model.InterviewForm, error) {
	forms := make([]*model.InterviewForm, 0, len(r.forms))
	for _, f := range r.forms {
		copied := *f
		forms = append(forms, &copied)
	}
	sort.Slice(forms, func(i, j int) bool {
		return forms[i].UpdatedAt.After(forms[j].UpdatedAt)
	})
	return forms, nil
}

func (r *fakeFormRepo) Update(_ context.Context, form *model.InterviewForm) error {
	form.UpdatedAt = time.Now()
	copied := *form
	r.forms[form.ID] = &copied
	return nil
}

func (r *fakeFormRepo) Delete(_ context.Context, id string) error {
	delete(r.forms, id)
	return nil
}

func (r *fakeFormRepo) Count(_ context.Context) (int64, error) {
	return int64(len(r.forms)), nil
}

type fakeConversationRepo struct {
	convs map[string]*model.VoiceConversation
}

func newFakeConversationRepo() *fakeConversationRepo {
	return &fakeConversationRepo{convs: make(map[string]*model.VoiceConversation)}
}

func (r *fakeConversationRepo) Create(_ context.Context, conv *model.VoiceConversation) error {
	conv.CreatedAt = time.Now()
	conv.UpdatedAt = time.Now()
	copied := *conv
	r.convs[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) GetByID(_ context.Context, id string) (*model.VoiceConversation, error) {
	conv, ok := r.convs[id]
	if !ok {
		return nil, nil
	}
	copied := *conv
	return &copied, nil
}

func (r *fakeConversationRepo) GetBySessionID(_ context.Context, sessionID string) (*model.VoiceConversation, error) {
	for _, conv := range r.convs {
		if conv.SessionID == sessionID {
			copied := *conv
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeConversationRepo) ListRecent(_ context.Context, limit int64) ([]*model.VoiceConversation, error) {
	convs := make([]*model.VoiceConversation, 0, len(r.convs))
	for _, c := range r.convs {
		copied := *c
		convs = append(convs, &copied)
	}
	sort.Slice(convs, func(i, j int) bool {
		return convs[i].CreatedAt.After(convs[j].CreatedAt)
	})
	if int64(len(convs)) > limit {
		convs = convs[:limit]
	}
	return convs, nil
}

func (r *fakeConversationRepo) Update(_ context.Context, conv *model.VoiceConversation) error {
	conv.UpdatedAt = time.Now()
	copied := *conv
	r.convs[conv.ID] = &copied
	return nil
}

func (r *fakeConversationRepo) Delete(_ context.Context, id string) error {
	delete(r.convs, id)
	return nil
}

func (r *fakeConversationRepo) ClearFormRef(_ context.Context, formID string) error {
	for _, conv := range r.convs {
		if conv.InterviewID == formID {
			conv.InterviewID = ""
		}
	}
	return nil
}

type fakeAssessmentRepo struct {
	assessments map[string]*model.TechnicalAssessment
}

func newFakeAssessmentRepo() *fakeAssessmentRepo {
	return &fakeAssessmentRepo{assessments: make(map[string]*model.TechnicalAssessment)}
}

func (r *fakeAssessmentRepo) Create(_ context.Context, a *model.TechnicalAssessment) error {
	a.CreatedAt = time.Now()
	a.UpdatedAt = time.Now()
	copied := *a
	r.assessments[a.ID] = &copied
	return nil
}

func (r *fakeAssessmentRepo) GetByID(_ context.Context, id string) (*model.TechnicalAssessment, error) {
	a, ok := r.assessments[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (r *fakeAssessmentRepo) Update(_ context.Context, a *model.TechnicalAssessment) error {
	a.UpdatedAt = time.Now()
	copied := *a
	r.assessments[a.ID] = &copied
	return nil
}

func (r *fakeAssessmentRepo) Delete(_ context.Context, id string) error {
	delete(r.assessments, id)
	return nil
}

func (r *fakeAssessmentRepo) DeleteByConversation(_ context.Context, conversationID string) error {
	for id, a := range r.assessments {
		if a.ConversationID == conversationID {
			delete(r.assessments, id)
		}
	}
	return nil
}

func (r *fakeAssessmentRepo) CountByConversation(_ context.Context, conversationID string) (int64, error) {
	var count int64
	for _, a := range r.assessments {
		if a.ConversationID == conversationID {
			count++
		}
	}
	return count, nil
}

func (r *fakeAssessmentRepo) ClearFormRef(_ context.Context, formID string) error {
	for _, a := range r.assessments {
		if a.InterviewID == formID {
			a.InterviewID = ""
		}
	}
	return nil
}

type fakeBankRepo struct {
	banks map[string][]string
}

func newFakeBankRepo() *fakeBankRepo {
	return &fakeBankRepo{banks: make(map[string][]string)}
}

func (r *fakeBankRepo) GetByRole(_ context.Context, role string) ([]string, error) {
	return r.banks[strings.ToLower(strings.TrimSpace(role))], nil
}

func (r *fakeBankRepo) Upsert(_ context.Context, role string, questions []string) error {
	r.banks[strings.ToLower(strings.TrimSpace(role))] = questions
	return nil
}
