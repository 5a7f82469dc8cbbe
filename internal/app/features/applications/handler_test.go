package applications_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/communityserve/volunteerhub/internal/app/features/applications"
	opportunitystore "github.com/communityserve/volunteerhub/internal/app/store/opportunities"
	"github.com/communityserve/volunteerhub/internal/app/system/auth"
	"github.com/communityserve/volunteerhub/internal/app/system/mailer"
	"github.com/communityserve/volunteerhub/internal/app/system/paging"
	"github.com/communityserve/volunteerhub/internal/domain/models"
	"github.com/communityserve/volunteerhub/internal/testutil"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func newHandler(t *testing.T) (*applications.Handler, *mailer.Recorder, *mongo.Database) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	rec := &mailer.Recorder{}
	return applications.NewHandler(db, rec, zap.NewNop()), rec, db
}

type envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Errors     []string        `json:"errors"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Current int   `json:"current"`
		Pages   int   `json:"pages"`
		Total   int64 `json:"total"`
		Limit   int   `json:"limit"`
	} `json:"pagination"`
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
		t.Fatalf("parse response: %v (body %s)", err, rec.Body.String())
	}
	return env
}

// waitForMail polls the recorder because notifications are sent from a
// goroutine after the handler has already responded.
func waitForMail(t *testing.T, rec *mailer.Recorder, want int) []mailer.Email {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		if sent := rec.Sent(); len(sent) >= want {
			return sent
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("expected %d sent emails, got %d", want, len(rec.Sent()))
	return nil
}

func applyBody(oppID string) string {
	return fmt.Sprintf(`{"opportunityId": %q, "applicationMessage": "I would love to help."}`, oppID)
}

func doApply(h *applications.Handler, vol models.User, body string) *httptest.ResponseRecorder {
	req := testutil.WithUser(httptest.NewRequest("POST", "/api/applications", strings.NewReader(body)), vol)
	rec := httptest.NewRecorder()
	h.HandleApply(rec, req)
	return rec
}

func TestHandleApply(t *testing.T) {
	h, mailrec, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Food Bank")
	vol := fixtures.CreateVolunteer(ctx, "Apply Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Pantry Shift")

	rec := doApply(h, vol, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusCreated {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var created models.Application
	if err := json.Unmarshal(decode(t, rec).Data, &created); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if created.Status != models.ApplicationPending {
		t.Errorf("default status: got %q, want pending", created.Status)
	}
	if created.CommunicationPreference != "platform" {
		t.Errorf("default communication preference: got %q, want platform", created.CommunicationPreference)
	}
	if created.OrganizationID != org.ID {
		t.Errorf("organization: got %v, want %v", created.OrganizationID, org.ID)
	}

	sent := waitForMail(t, mailrec, 1)
	if sent[0].To != org.Email {
		t.Errorf("notification recipient: got %q, want %q", sent[0].To, org.Email)
	}
	if !strings.Contains(sent[0].TextBody, "Pantry Shift") {
		t.Errorf("notification body missing opportunity title: %q", sent[0].TextBody)
	}
}

func TestHandleApply_Duplicate(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Dup Org")
	vol := fixtures.CreateVolunteer(ctx, "Dup Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Twice Is Too Many")

	if rec := doApply(h, vol, applyBody(opp.ID.Hex())); rec.Code != http.StatusCreated {
		t.Fatalf("first apply: got %d", rec.Code)
	}
	rec := doApply(h, vol, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("second apply: got %d, want 400", rec.Code)
	}
	if env := decode(t, rec); !strings.Contains(env.Message, "already applied") {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestHandleApply_NoSpotsLeft(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Small Org")
	opp := fixtures.CreateOpportunity(ctx, org, "One Seat Only")

	one := 1
	opps := opportunitystore.New(db)
	if err := opps.Update(ctx, opp.ID, opportunitystore.Update{VolunteersNeeded: &one}); err != nil {
		t.Fatalf("shrink capacity: %v", err)
	}

	first := fixtures.CreateVolunteer(ctx, "Seat Taker")
	fixtures.CreateApplication(ctx, opp, first, models.ApplicationPending)

	late := fixtures.CreateVolunteer(ctx, "Too Late")
	rec := doApply(h, late, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if env := decode(t, rec); !strings.Contains(env.Message, "maximum limit of 1 volunteers") {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestHandleApply_ClosedOpportunity(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Closed Org")
	opp := fixtures.CreateOpportunity(ctx, org, "Door Is Shut")

	closed := models.OpportunityClosed
	opps := opportunitystore.New(db)
	if err := opps.Update(ctx, opp.ID, opportunitystore.Update{Status: &closed}); err != nil {
		t.Fatalf("close opportunity: %v", err)
	}

	vol := fixtures.CreateVolunteer(ctx, "Left Outside")
	rec := doApply(h, vol, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status: got %d, want 400", rec.Code)
	}
}

func TestHandleApply_DeadlinePassed(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Deadline Org")
	opp := fixtures.CreateOpportunity(ctx, org, "Window Closed")

	past := time.Now().UTC().Add(-time.Hour)
	opps := opportunitystore.New(db)
	if err := opps.Update(ctx, opp.ID, opportunitystore.Update{ApplicationDeadline: &past}); err != nil {
		t.Fatalf("set deadline: %v", err)
	}

	vol := fixtures.CreateVolunteer(ctx, "Missed It")
	rec := doApply(h, vol, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if env := decode(t, rec); !strings.Contains(env.Message, "deadline") {
		t.Errorf("message: got %q", env.Message)
	}
}

func TestHandleApply_OrganizationForbidden(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Self Serve")
	opp := fixtures.CreateOpportunity(ctx, org, "Own Posting")

	rec := doApply(h, org, applyBody(opp.ID.Hex()))
	if rec.Code != http.StatusForbidden {
		t.Errorf("status: got %d, want 403", rec.Code)
	}
}

func decideReq(h *applications.Handler, appID string, actor models.User, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PUT", "/api/applications/"+appID+"/status", strings.NewReader(body))
	req = testutil.WithChiURLParam(testutil.WithUser(req, actor), "id", appID)
	rec := httptest.NewRecorder()
	h.HandleDecide(rec, req)
	return rec
}

func TestHandleDecide_AcceptThenComplete(t *testing.T) {
	h, mailrec, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Decide Org")
	vol := fixtures.CreateVolunteer(ctx, "Decide Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Two Step")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := decideReq(h, app.ID.Hex(), org, `{"status": "accepted", "organizationNotes": "See you Saturday"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("accept: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var updated models.Application
	if err := json.Unmarshal(decode(t, rec).Data, &updated); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if updated.Status != models.ApplicationAccepted {
		t.Errorf("status: got %q, want accepted", updated.Status)
	}
	if updated.ReviewedAt == nil || updated.ReviewedBy == nil {
		t.Error("accept should stamp reviewedAt and reviewedBy")
	}
	if updated.OrganizationNotes != "See you Saturday" {
		t.Errorf("notes: got %q", updated.OrganizationNotes)
	}

	sent := waitForMail(t, mailrec, 1)
	if sent[0].To != vol.Email {
		t.Errorf("notification recipient: got %q, want %q", sent[0].To, vol.Email)
	}

	rec = decideReq(h, app.ID.Hex(), org, `{"status": "completed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("complete: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(decode(t, rec).Data, &updated); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if updated.Status != models.ApplicationCompleted {
		t.Errorf("status: got %q, want completed", updated.Status)
	}
	if updated.CompletedAt == nil {
		t.Error("complete should stamp completedAt")
	}
}

func TestHandleDecide_InvalidTransition(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Skip Org")
	vol := fixtures.CreateVolunteer(ctx, "Skip Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "No Skipping")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := decideReq(h, app.ID.Hex(), org, `{"status": "completed"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400", rec.Code)
	}
	if env := decode(t, rec); !strings.Contains(env.Message, "pending") {
		t.Errorf("message should name the current status: got %q", env.Message)
	}
}

func TestHandleDecide_RivalOrganizationForbidden(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Owner Org")
	rival := fixtures.CreateOrganization(ctx, "Rival Org")
	vol := fixtures.CreateVolunteer(ctx, "Contested Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Not Yours")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := decideReq(h, app.ID.Hex(), rival, `{"status": "accepted"}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("rival: got %d, want 403", rec.Code)
	}
}

func TestHandleDecide_AdminMayDecide(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Overseen Org")
	vol := fixtures.CreateVolunteer(ctx, "Overseen Vol")
	admin := fixtures.CreateAdmin(ctx, "Site Admin")
	opp := fixtures.CreateOpportunity(ctx, org, "Admin Steps In")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := decideReq(h, app.ID.Hex(), admin, `{"status": "rejected"}`)
	if rec.Code != http.StatusOK {
		t.Errorf("admin: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestHandleDecide_AcceptWhenFullyStaffed(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Staffed Org")
	opp := fixtures.CreateOpportunity(ctx, org, "Full House")

	one := 1
	opps := opportunitystore.New(db)
	if err := opps.Update(ctx, opp.ID, opportunitystore.Update{VolunteersNeeded: &one}); err != nil {
		t.Fatalf("shrink capacity: %v", err)
	}

	taken := fixtures.CreateVolunteer(ctx, "Already In")
	fixtures.CreateApplication(ctx, opp, taken, models.ApplicationAccepted)

	waiting := fixtures.CreateVolunteer(ctx, "Still Waiting")
	app := fixtures.CreateApplication(ctx, opp, waiting, models.ApplicationPending)

	rec := decideReq(h, app.ID.Hex(), org, `{"status": "accepted"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status: got %d, want 400 (body %s)", rec.Code, rec.Body.String())
	}
	if env := decode(t, rec); !strings.Contains(env.Message, "fully staffed") {
		t.Errorf("message: got %q", env.Message)
	}
}

func withdrawReq(h *applications.Handler, appID string, actor models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PUT", "/api/applications/"+appID+"/withdraw", nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, actor), "id", appID)
	rec := httptest.NewRecorder()
	h.HandleWithdraw(rec, req)
	return rec
}

func TestHandleWithdraw(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Withdraw Org")
	vol := fixtures.CreateVolunteer(ctx, "Withdraw Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Changed My Mind")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := withdrawReq(h, app.ID.Hex(), vol)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := h.Apps.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.Status != models.ApplicationWithdrawn {
		t.Errorf("status: got %q, want withdrawn", got.Status)
	}
}

func TestHandleWithdraw_AcceptedConflict(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Locked Org")
	vol := fixtures.CreateVolunteer(ctx, "Locked Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Too Late To Leave")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationAccepted)

	rec := withdrawReq(h, app.ID.Hex(), vol)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("owner of accepted application: got %d, want 400", rec.Code)
	}

	other := fixtures.CreateVolunteer(ctx, "Some Stranger")
	rec = withdrawReq(h, app.ID.Hex(), other)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", rec.Code)
	}
}

func rateReq(h *applications.Handler, appID string, actor models.User, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("PUT", "/api/applications/"+appID+"/rate", strings.NewReader(body))
	req = testutil.WithChiURLParam(testutil.WithUser(req, actor), "id", appID)
	rec := httptest.NewRecorder()
	h.HandleRate(rec, req)
	return rec
}

func TestHandleRate_BothDirections(t *testing.T) {
	h, mailrec, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Rate Org")
	vol := fixtures.CreateVolunteer(ctx, "Rate Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Well Done")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationCompleted)

	rec := rateReq(h, app.ID.Hex(), org, `{"score": 5, "feedback": "Reliable and kind"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("org rates volunteer: got %d (body %s)", rec.Code, rec.Body.String())
	}
	var updated models.Application
	if err := json.Unmarshal(decode(t, rec).Data, &updated); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if updated.Rating.VolunteerRating == nil || updated.Rating.VolunteerRating.Score != 5 {
		t.Errorf("volunteer rating: got %+v", updated.Rating.VolunteerRating)
	}

	rec = rateReq(h, app.ID.Hex(), vol, `{"score": 4}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("volunteer rates org: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if err := json.Unmarshal(decode(t, rec).Data, &updated); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if updated.Rating.OrganizationRating == nil || updated.Rating.OrganizationRating.Score != 4 {
		t.Errorf("organization rating: got %+v", updated.Rating.OrganizationRating)
	}
	if updated.Rating.VolunteerRating == nil {
		t.Error("volunteer rating should survive the second direction")
	}

	// Re-rating overwrites.
	rec = rateReq(h, app.ID.Hex(), org, `{"score": 3}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("re-rate: got %d", rec.Code)
	}
	if err := json.Unmarshal(decode(t, rec).Data, &updated); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if updated.Rating.VolunteerRating == nil || updated.Rating.VolunteerRating.Score != 3 {
		t.Errorf("overwritten rating: got %+v", updated.Rating.VolunteerRating)
	}

	waitForMail(t, mailrec, 3)
}

func TestHandleRate_PendingConflict(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Early Org")
	vol := fixtures.CreateVolunteer(ctx, "Early Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Not Finished")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	rec := rateReq(h, app.ID.Hex(), org, `{"score": 5}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("owner on pending: got %d, want 400", rec.Code)
	}

	stranger := fixtures.CreateVolunteer(ctx, "Outside Rater")
	rec = rateReq(h, app.ID.Hex(), stranger, `{"score": 5}`)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", rec.Code)
	}
}

func TestHandleCommunication(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Comm Org")
	vol := fixtures.CreateVolunteer(ctx, "Comm Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Reach Me By Email")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	body := `{"communicationPreference": "email"}`
	req := httptest.NewRequest("PUT", "/api/applications/"+app.ID.Hex()+"/communication", strings.NewReader(body))
	req = testutil.WithChiURLParam(testutil.WithUser(req, vol), "id", app.ID.Hex())
	rec := httptest.NewRecorder()
	h.HandleCommunication(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}

	got, err := h.Apps.GetByID(ctx, app.ID)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.CommunicationPreference != "email" {
		t.Errorf("preference: got %q, want email", got.CommunicationPreference)
	}

	// The receiving organization may change it too; a stranger may not.
	body = `{"communicationPreference": "phone"}`
	req = httptest.NewRequest("PUT", "/api/applications/"+app.ID.Hex()+"/communication", strings.NewReader(body))
	req = testutil.WithChiURLParam(testutil.WithUser(req, org), "id", app.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleCommunication(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("organization: got %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}

	stranger := fixtures.CreateVolunteer(ctx, "Comm Stranger")
	req = httptest.NewRequest("PUT", "/api/applications/"+app.ID.Hex()+"/communication", strings.NewReader(body))
	req = testutil.WithChiURLParam(testutil.WithUser(req, stranger), "id", app.ID.Hex())
	rec = httptest.NewRecorder()
	h.HandleCommunication(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", rec.Code)
	}
}

func deleteReq(h *applications.Handler, appID string, actor models.User) *httptest.ResponseRecorder {
	req := httptest.NewRequest("DELETE", "/api/applications/"+appID, nil)
	req = testutil.WithChiURLParam(testutil.WithUser(req, actor), "id", appID)
	rec := httptest.NewRecorder()
	h.HandleDelete(rec, req)
	return rec
}

func TestHandleDelete(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Delete Org")
	vol := fixtures.CreateVolunteer(ctx, "Delete Vol")
	admin := fixtures.CreateAdmin(ctx, "Delete Admin")
	opp := fixtures.CreateOpportunity(ctx, org, "Tidy Up")

	pending := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)
	if rec := deleteReq(h, pending.ID.Hex(), vol); rec.Code != http.StatusOK {
		t.Errorf("owner deletes pending: got %d (body %s)", rec.Code, rec.Body.String())
	}

	another := fixtures.CreateVolunteer(ctx, "Delete Vol Two")
	accepted := fixtures.CreateApplication(ctx, opp, another, models.ApplicationAccepted)
	if rec := deleteReq(h, accepted.ID.Hex(), another); rec.Code != http.StatusBadRequest {
		t.Errorf("owner deletes accepted: got %d, want 400", rec.Code)
	}
	if rec := deleteReq(h, accepted.ID.Hex(), admin); rec.Code != http.StatusOK {
		t.Errorf("admin deletes accepted: got %d (body %s)", rec.Code, rec.Body.String())
	}
}

func TestServeView_Access(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "View Org")
	vol := fixtures.CreateVolunteer(ctx, "View Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Private Matters")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	view := func(actor models.User) int {
		req := httptest.NewRequest("GET", "/api/applications/"+app.ID.Hex(), nil)
		req = testutil.WithChiURLParam(testutil.WithUser(req, actor), "id", app.ID.Hex())
		rec := httptest.NewRecorder()
		h.ServeView(rec, req)
		return rec.Code
	}

	if code := view(vol); code != http.StatusOK {
		t.Errorf("volunteer: got %d, want 200", code)
	}
	if code := view(org); code != http.StatusOK {
		t.Errorf("organization: got %d, want 200", code)
	}
	stranger := fixtures.CreateVolunteer(ctx, "View Stranger")
	if code := view(stranger); code != http.StatusForbidden {
		t.Errorf("stranger: got %d, want 403", code)
	}
}

func TestServeMine_ScopedAndFiltered(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "List Org")
	mine := fixtures.CreateVolunteer(ctx, "List Mine")
	other := fixtures.CreateVolunteer(ctx, "List Other")

	first := fixtures.CreateOpportunity(ctx, org, "First Gig")
	second := fixtures.CreateOpportunity(ctx, org, "Second Gig")
	fixtures.CreateApplication(ctx, first, mine, models.ApplicationPending)
	fixtures.CreateApplication(ctx, second, mine, models.ApplicationAccepted)
	fixtures.CreateApplication(ctx, first, other, models.ApplicationPending)

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications/my", nil), mine)
	rec := httptest.NewRecorder()
	h.ServeMine(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 2 {
		t.Fatalf("total: got %+v, want 2", env.Pagination)
	}

	var apps []models.Application
	if err := json.Unmarshal(env.Data, &apps); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	for _, a := range apps {
		if a.VolunteerID != mine.ID {
			t.Errorf("leaked someone else's application: %v", a.ID)
		}
		if a.Opportunity == nil {
			t.Errorf("application %v missing populated opportunity", a.ID)
		}
	}

	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications/my?status=accepted", nil), mine)
	rec = httptest.NewRecorder()
	h.ServeMine(rec, req)
	env = decode(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("filtered total: got %+v, want 1", env.Pagination)
	}
}

func TestServeForOrganization(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Inbox Org")
	rival := fixtures.CreateOrganization(ctx, "Inbox Rival")
	vol := fixtures.CreateVolunteer(ctx, "Inbox Vol")

	ours := fixtures.CreateOpportunity(ctx, org, "Our Posting")
	theirs := fixtures.CreateOpportunity(ctx, rival, "Their Posting")
	fixtures.CreateApplication(ctx, ours, vol, models.ApplicationPending)
	fixtures.CreateApplication(ctx, theirs, vol, models.ApplicationPending)

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications/organization", nil), org)
	rec := httptest.NewRecorder()
	h.ServeForOrganization(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("total: got %+v, want 1", env.Pagination)
	}

	// Narrow to one opportunity.
	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications/organization?opportunity="+ours.ID.Hex(), nil), org)
	rec = httptest.NewRecorder()
	h.ServeForOrganization(rec, req)
	env = decode(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("narrowed total: got %+v, want 1", env.Pagination)
	}

	// Volunteers have no organization inbox.
	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications/organization", nil), vol)
	rec = httptest.NewRecorder()
	h.ServeForOrganization(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("volunteer: got %d, want 403", rec.Code)
	}
}

func TestServeAll_AdminOnly(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "All Org")
	vol := fixtures.CreateVolunteer(ctx, "All Vol")
	admin := fixtures.CreateAdmin(ctx, "All Admin")
	opp := fixtures.CreateOpportunity(ctx, org, "Everything")
	fixtures.CreateApplication(ctx, opp, vol, models.ApplicationPending)

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications", nil), admin)
	rec := httptest.NewRecorder()
	h.ServeAll(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if env := decode(t, rec); env.Pagination == nil || env.Pagination.Total != 1 {
		t.Errorf("total: got %+v, want 1", env.Pagination)
	}

	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications", nil), org)
	rec = httptest.NewRecorder()
	h.ServeAll(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("organization: got %d, want 403", rec.Code)
	}
}

func TestServeMine_OrganizationSide(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Mine Org")
	rival := fixtures.CreateOrganization(ctx, "Mine Rival")
	vol := fixtures.CreateVolunteer(ctx, "Mine Vol")

	ours := fixtures.CreateOpportunity(ctx, org, "Org Side Gig")
	theirs := fixtures.CreateOpportunity(ctx, rival, "Rival Side Gig")
	fixtures.CreateApplication(ctx, ours, vol, models.ApplicationPending)
	fixtures.CreateApplication(ctx, theirs, vol, models.ApplicationPending)

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications/my", nil), org)
	rec := httptest.NewRecorder()
	h.ServeMine(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
	}
	env := decode(t, rec)
	if env.Pagination == nil || env.Pagination.Total != 1 {
		t.Fatalf("total: got %+v, want 1", env.Pagination)
	}
	if env.Pagination.Limit != paging.ScopedLimit {
		t.Errorf("default limit: got %d, want %d", env.Pagination.Limit, paging.ScopedLimit)
	}

	var apps []models.Application
	if err := json.Unmarshal(env.Data, &apps); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if len(apps) != 1 || apps[0].OrganizationID != org.ID {
		t.Errorf("expected only the caller's inbox, got %+v", apps)
	}

	admin := fixtures.CreateAdmin(ctx, "Mine Admin")
	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications/my", nil), admin)
	rec = httptest.NewRecorder()
	h.ServeMine(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("admin: got %d, want 403", rec.Code)
	}
}

func TestHandleApply_MessageTooLong(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Length Org")
	vol := fixtures.CreateVolunteer(ctx, "Length Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Brevity Required")

	long := fmt.Sprintf(`{"opportunityId": %q, "applicationMessage": %q}`,
		opp.ID.Hex(), strings.Repeat("x", 1001))
	if rec := doApply(h, vol, long); rec.Code != http.StatusBadRequest {
		t.Errorf("1001 chars: got %d, want 400", rec.Code)
	}

	atLimit := fmt.Sprintf(`{"opportunityId": %q, "applicationMessage": %q}`,
		opp.ID.Hex(), strings.Repeat("x", 1000))
	if rec := doApply(h, vol, atLimit); rec.Code != http.StatusCreated {
		t.Errorf("1000 chars: got %d, want 201 (body %s)", rec.Code, rec.Body.String())
	}
}

func TestServeRatings(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Ratings Org")
	vol := fixtures.CreateVolunteer(ctx, "Ratings Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Rated Gig")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationCompleted)

	if rec := rateReq(h, app.ID.Hex(), org, `{"score": 5, "feedback": "great help"}`); rec.Code != http.StatusOK {
		t.Fatalf("org rates: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if rec := rateReq(h, app.ID.Hex(), vol, `{"score": 4, "feedback": "well organized"}`); rec.Code != http.StatusOK {
		t.Fatalf("vol rates: got %d (body %s)", rec.Code, rec.Body.String())
	}

	type view struct {
		Score        int                 `json:"score"`
		Opportunity  *models.Opportunity `json:"opportunity"`
		Volunteer    *models.UserSummary `json:"volunteer"`
		Organization *models.UserSummary `json:"organization"`
	}
	fetch := func(as models.User) (received, given []view) {
		req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications/ratings", nil), as)
		rec := httptest.NewRecorder()
		h.ServeRatings(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("status: got %d (body %s)", rec.Code, rec.Body.String())
		}
		var got struct {
			Received []view `json:"received"`
			Given    []view `json:"given"`
		}
		if err := json.Unmarshal(decode(t, rec).Data, &got); err != nil {
			t.Fatalf("parse data: %v", err)
		}
		return got.Received, got.Given
	}

	received, given := fetch(vol)
	if len(received) != 1 || received[0].Score != 5 {
		t.Errorf("volunteer received: got %+v, want one score-5 entry", received)
	}
	if len(given) != 1 || given[0].Score != 4 {
		t.Errorf("volunteer given: got %+v, want one score-4 entry", given)
	}
	if len(received) == 1 && (received[0].Organization == nil || received[0].Opportunity == nil) {
		t.Error("volunteer received entry missing counterparty or opportunity")
	}

	received, given = fetch(org)
	if len(received) != 1 || received[0].Score != 4 {
		t.Errorf("organization received: got %+v, want one score-4 entry", received)
	}
	if len(given) != 1 || given[0].Score != 5 {
		t.Errorf("organization given: got %+v, want one score-5 entry", given)
	}
	if len(received) == 1 && received[0].Volunteer == nil {
		t.Error("organization received entry missing the volunteer")
	}
}

func TestServeAllRatings(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "All Ratings Org")
	vol := fixtures.CreateVolunteer(ctx, "All Ratings Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Audited Gig")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationCompleted)

	if rec := rateReq(h, app.ID.Hex(), org, `{"score": 5}`); rec.Code != http.StatusOK {
		t.Fatalf("org rates: got %d", rec.Code)
	}
	if rec := rateReq(h, app.ID.Hex(), vol, `{"score": 3}`); rec.Code != http.StatusOK {
		t.Fatalf("vol rates: got %d", rec.Code)
	}

	req := testutil.WithUser(httptest.NewRequest("GET", "/api/applications/ratings/all", nil), vol)
	rec := httptest.NewRecorder()
	h.ServeAllRatings(rec, req)
	if rec.Code != http.StatusForbidden {
		t.Errorf("volunteer: got %d, want 403", rec.Code)
	}

	admin := fixtures.CreateAdmin(ctx, "Ratings Admin")
	req = testutil.WithUser(httptest.NewRequest("GET", "/api/applications/ratings/all", nil), admin)
	rec = httptest.NewRecorder()
	h.ServeAllRatings(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("admin: got %d (body %s)", rec.Code, rec.Body.String())
	}

	var all []struct {
		Score int    `json:"score"`
		Type  string `json:"type"`
	}
	if err := json.Unmarshal(decode(t, rec).Data, &all); err != nil {
		t.Fatalf("parse data: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("entries: got %d, want 2", len(all))
	}
	types := map[string]bool{}
	for _, entry := range all {
		types[entry.Type] = true
	}
	if !types["Organization to Volunteer"] || !types["Volunteer to Organization"] {
		t.Errorf("types: got %v, want both directions", types)
	}
}

func TestRoutes_RateVerbAndRatingsPaths(t *testing.T) {
	h, _, db := newHandler(t)
	fixtures := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	org := fixtures.CreateOrganization(ctx, "Route Org")
	vol := fixtures.CreateVolunteer(ctx, "Route Vol")
	opp := fixtures.CreateOpportunity(ctx, org, "Routed Gig")
	app := fixtures.CreateApplication(ctx, opp, vol, models.ApplicationCompleted)

	tokens := auth.NewTokenManager("route-test-secret", time.Hour, zap.NewNop())
	router := chi.NewRouter()
	router.Use(tokens.LoadUser)
	router.Mount("/api/applications", applications.Routes(h, tokens))

	token, err := tokens.Issue(auth.SessionUser{ID: vol.ID.Hex(), Name: vol.Name, Role: vol.Role})
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}
	do := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	if rec := do("PUT", "/api/applications/"+app.ID.Hex()+"/rate", `{"score": 5}`); rec.Code != http.StatusOK {
		t.Errorf("PUT rate: got %d (body %s)", rec.Code, rec.Body.String())
	}
	// The ratings listings must not be captured by the /{id} route.
	if rec := do("GET", "/api/applications/ratings", ""); rec.Code != http.StatusOK {
		t.Errorf("GET ratings: got %d (body %s)", rec.Code, rec.Body.String())
	}
	if rec := do("GET", "/api/applications/ratings/all", ""); rec.Code != http.StatusForbidden {
		t.Errorf("GET ratings/all as volunteer: got %d, want 403", rec.Code)
	}
}
