package handler

import (
	"bytes"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/suite"

	"resgate/internal/orgs/service"
	"resgate/internal/orgs/store/orgstore"
	"resgate/internal/storage"
	id "resgate/pkg/domain"
	dErrors "resgate/pkg/domain-errors"
	"resgate/pkg/testutil"
)

const validCNPJ = "11222333000181"

// Check-digit-valid CNPJs for tests that register several organizations.
var cnpjPool = []string{
	"11222333000181",
	"11444777000161",
	"04252011000110",
	"33000167000101",
	"60701190000104",
	"00000000000191",
}

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

type OrgsHandlerSuite struct {
	suite.Suite
	router   chi.Router
	service  *service.Service
	nextCNPJ int
}

func (s *OrgsHandlerSuite) SetupTest() {
	s.service = service.NewService(orgstore.NewInMemory(), storage.NewInMemory(), plainHasher{})
	h := New(s.service, slog.Default())
	s.router = chi.NewRouter()
	h.RegisterPublic(s.router)
	h.Register(s.router)
	s.nextCNPJ = 0
}

func TestOrgsHandlerSuite(t *testing.T) {
	suite.Run(t, new(OrgsHandlerSuite))
}

func (s *OrgsHandlerSuite) registrationForm(fields map[string]string, withDocument bool) *http.Request {
	var body bytes.Buffer
	form := multipart.NewWriter(&body)
	for key, value := range fields {
		s.Require().NoError(form.WriteField(key, value))
	}
	if withDocument {
		part, err := form.CreateFormFile("document", "estatuto.pdf")
		s.Require().NoError(err)
		_, err = part.Write([]byte("%PDF-1.4"))
		s.Require().NoError(err)
	}
	s.Require().NoError(form.Close())

	req := httptest.NewRequest(http.MethodPost, "/orgs/register", &body)
	req.Header.Set("Content-Type", form.FormDataContentType())
	return req
}

func (s *OrgsHandlerSuite) validForm() map[string]string {
	return s.formWithCNPJ(validCNPJ)
}

func (s *OrgsHandlerSuite) formWithCNPJ(cnpj string) map[string]string {
	return map[string]string{
		"name":     "Patas Urgentes",
		"cnpj":     cnpj,
		"email":    "contato+" + cnpj + "@patas.org",
		"address":  "Rua das Flores 12",
		"password": "super-secret",
	}
}

// register submits a fresh organization with the next unused CNPJ.
func (s *OrgsHandlerSuite) register() *OrganizationResponse {
	s.Require().Less(s.nextCNPJ, len(cnpjPool), "cnpj pool exhausted")
	form := s.formWithCNPJ(cnpjPool[s.nextCNPJ])
	s.nextCNPJ++

	rr := testutil.DoRequest(s.router, s.registrationForm(form, true))
	testutil.AssertStatus(s.T(), rr, http.StatusCreated)
	resp := testutil.UnmarshalResponse[RegistrationResponse](s.T(), rr)
	return resp.Organization
}

func (s *OrgsHandlerSuite) TestRegister() {
	s.Run("multipart form registers a pending org", func() {
		rr := testutil.DoRequest(s.router, s.registrationForm(s.validForm(), true))

		testutil.AssertStatus(s.T(), rr, http.StatusCreated)
		resp := testutil.UnmarshalResponse[RegistrationResponse](s.T(), rr)
		s.Equal("pending", resp.Organization.Status)
		s.Equal(validCNPJ, resp.Organization.CNPJ)
		s.True(resp.DocumentStored)
		s.True(resp.Organization.HasDocument)
	})

	s.Run("invalid cnpj is rejected", func() {
		fields := s.validForm()
		fields["cnpj"] = "11222333000199"
		rr := testutil.DoRequest(s.router, s.registrationForm(fields, false))
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("json body is rejected", func() {
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/orgs/register", map[string]string{"name": "x"})
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeBadRequest))
	})

	s.Run("duplicate registration conflicts", func() {
		first := testutil.DoRequest(s.router, s.registrationForm(s.validForm(), false))
		testutil.AssertStatus(s.T(), first, http.StatusCreated)

		second := testutil.DoRequest(s.router, s.registrationForm(s.validForm(), false))
		testutil.AssertStatusAndError(s.T(), second, http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func (s *OrgsHandlerSuite) TestReview() {
	s.Run("admin approves a pending registration", func() {
		org := s.register()
		req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodPost, "/orgs/"+org.ID+"/approve"), id.NewUserID())

		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[DecisionResponse](s.T(), rr)
		s.Equal("approved", resp.Organization.Status)
		s.True(resp.DocumentMoved)
	})

	s.Run("admin rejects with a reason", func() {
		org := s.register()
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/orgs/"+org.ID+"/reject", map[string]string{
			"reason": "document unreadable",
		})
		req = testutil.AsAdmin(req, id.NewUserID())

		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[DecisionResponse](s.T(), rr)
		s.Equal("rejected", resp.Organization.Status)
		s.Equal("document unreadable", resp.Organization.RejectionReason)
	})

	s.Run("rejecting without a reason is invalid", func() {
		org := s.register()
		req := testutil.NewJSONRequest(s.T(), http.MethodPost, "/orgs/"+org.ID+"/reject", map[string]string{})
		req = testutil.AsAdmin(req, id.NewUserID())

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusBadRequest, string(dErrors.CodeInvalidInput))
	})

	s.Run("non-admin cannot decide", func() {
		org := s.register()
		req := testutil.AsOrganization(testutil.NewRequest(s.T(), http.MethodPost, "/orgs/"+org.ID+"/approve"), id.NewOrgID())

		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})

	s.Run("second decision conflicts", func() {
		org := s.register()
		approve := func() *httptest.ResponseRecorder {
			req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodPost, "/orgs/"+org.ID+"/approve"), id.NewUserID())
			return testutil.DoRequest(s.router, req)
		}
		testutil.AssertStatus(s.T(), approve(), http.StatusOK)
		testutil.AssertStatusAndError(s.T(), approve(), http.StatusConflict, string(dErrors.CodeConflict))
	})
}

func (s *OrgsHandlerSuite) TestListPending() {
	s.register()

	s.Run("admin sees the queue", func() {
		req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/orgs/pending"), id.NewUserID())
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[[]OrganizationResponse](s.T(), rr)
		s.Require().Len(*resp, 1)
	})

	s.Run("others are forbidden", func() {
		req := testutil.AsCitizen(testutil.NewRequest(s.T(), http.MethodGet, "/orgs/pending"), id.NewUserID())
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})
}

func (s *OrgsHandlerSuite) TestDocumentURL() {
	org := s.register()
	orgID, err := id.ParseOrgID(org.ID)
	s.Require().NoError(err)

	s.Run("admin fetches the signed url", func() {
		req := testutil.AsAdmin(testutil.NewRequest(s.T(), http.MethodGet, "/orgs/"+org.ID+"/document"), id.NewUserID())
		rr := testutil.DoRequest(s.router, req)

		testutil.AssertStatus(s.T(), rr, http.StatusOK)
		resp := testutil.UnmarshalResponse[DocumentURLResponse](s.T(), rr)
		s.NotEmpty(resp.URL)
	})

	s.Run("the org fetches its own document", func() {
		req := testutil.AsOrganization(testutil.NewRequest(s.T(), http.MethodGet, "/orgs/"+org.ID+"/document"), orgID)
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatus(s.T(), rr, http.StatusOK)
	})

	s.Run("strangers are forbidden", func() {
		req := testutil.AsOrganization(testutil.NewRequest(s.T(), http.MethodGet, "/orgs/"+org.ID+"/document"), id.NewOrgID())
		rr := testutil.DoRequest(s.router, req)
		testutil.AssertStatusAndError(s.T(), rr, http.StatusForbidden, string(dErrors.CodeForbidden))
	})
}
