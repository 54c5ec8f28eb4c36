package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// (POST /accounts)
	RegisterAccount(w http.ResponseWriter, r *http.Request)
	// (GET /accounts/{accountId})
	GetAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (PUT /accounts/{accountId})
	UpdateAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (GET /accounts/{accountId}/transactions)
	ListAccountTransactions(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (GET /accounts/{accountId}/projects)
	ListAccountProjects(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (GET /accounts/{accountId}/reconciliation)
	ReconcileAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (POST /accounts/{accountId}/credit)
	CreditAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (POST /accounts/{accountId}/debit)
	DebitAccount(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)
	// (POST /accounts/{accountId}/referral)
	EarnReferralCredit(w http.ResponseWriter, r *http.Request, accountId openapi_types.UUID)

	// (GET /freelancers)
	SearchFreelancers(w http.ResponseWriter, r *http.Request, params SearchFreelancersParams)
	// (GET /freelancers/{freelancerId}/reviews)
	ListFreelancerReviews(w http.ResponseWriter, r *http.Request, freelancerId openapi_types.UUID)
	// (POST /freelancers/{freelancerId}/reviews)
	SubmitReview(w http.ResponseWriter, r *http.Request, freelancerId openapi_types.UUID)
	// (PUT /reviews/{reviewId})
	EditReview(w http.ResponseWriter, r *http.Request, reviewId openapi_types.UUID)

	// (POST /projects)
	PostProject(w http.ResponseWriter, r *http.Request)
	// (GET /projects/{projectId})
	GetProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID)
	// (PUT /projects/{projectId})
	UpdateProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID)
	// (POST /projects/{projectId}/assign)
	AssignFreelancer(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params LifecycleParams)
	// (POST /projects/{projectId}/complete)
	CompleteProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params LifecycleParams)
	// (POST /projects/{projectId}/cancel)
	CancelProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID, params LifecycleParams)
	// (POST /projects/{projectId}/apply)
	ApplyToProject(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID)
	// (POST /projects/{projectId}/reviews)
	SubmitProjectReview(w http.ResponseWriter, r *http.Request, projectId openapi_types.UUID)

	// (GET /agreements/{agreementId})
	GetAgreement(w http.ResponseWriter, r *http.Request, agreementId openapi_types.UUID)
	// (POST /agreements/{agreementId}/accept)
	AcceptAgreement(w http.ResponseWriter, r *http.Request, agreementId openapi_types.UUID)
}

type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts contexts to parameters.
type ServerInterfaceWrapper struct {
	Handler            ServerInterface
	HandlerMiddlewares []MiddlewareFunc
	ErrorHandlerFunc   func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is passed to ErrorHandlerFunc when a parameter
// cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) serve(w http.ResponseWriter, r *http.Request, fn http.HandlerFunc) {
	handler := http.Handler(fn)
	for _, middleware := range siw.HandlerMiddlewares {
		handler = middleware(handler)
	}
	handler.ServeHTTP(w, r)
}

// pathID binds a UUID path parameter, reporting failures through
// ErrorHandlerFunc.
func (siw *ServerInterfaceWrapper) pathID(w http.ResponseWriter, r *http.Request, name string) (openapi_types.UUID, bool) {
	var id openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: name, Err: err})
		return id, false
	}
	return id, true
}

func (siw *ServerInterfaceWrapper) lifecycleParams(w http.ResponseWriter, r *http.Request) (LifecycleParams, bool) {
	var params LifecycleParams
	if err := runtime.BindQueryParameter("form", true, false, "async", r.URL.Query(), &params.Async); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "async", Err: err})
		return params, false
	}
	return params, true
}

func (siw *ServerInterfaceWrapper) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.RegisterAccount)
}

func (siw *ServerInterfaceWrapper) PostProject(w http.ResponseWriter, r *http.Request) {
	siw.serve(w, r, siw.Handler.PostProject)
}

func (siw *ServerInterfaceWrapper) SearchFreelancers(w http.ResponseWriter, r *http.Request) {
	var params SearchFreelancersParams
	if err := runtime.BindQueryParameter("form", true, false, "q", r.URL.Query(), &params.Q); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "q", Err: err})
		return
	}
	siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
		siw.Handler.SearchFreelancers(w, r, params)
	})
}

// withID adapts a handler taking one UUID path parameter.
func (siw *ServerInterfaceWrapper) withID(name string, fn func(http.ResponseWriter, *http.Request, openapi_types.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := siw.pathID(w, r, name)
		if !ok {
			return
		}
		siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, id)
		})
	}
}

// withLifecycle adapts a handler taking a project id and LifecycleParams.
func (siw *ServerInterfaceWrapper) withLifecycle(fn func(http.ResponseWriter, *http.Request, openapi_types.UUID, LifecycleParams)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := siw.pathID(w, r, "projectId")
		if !ok {
			return
		}
		params, ok := siw.lifecycleParams(w, r)
		if !ok {
			return
		}
		siw.serve(w, r, func(w http.ResponseWriter, r *http.Request) {
			fn(w, r, id, params)
		})
	}
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL          string
	BaseRouter       chi.Router
	Middlewares      []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// Handler creates http.Handler with routing matching the API.
func Handler(si ServerInterface) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{})
}

// HandlerFromMux creates http.Handler with routing matching the API, mounted
// on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:            si,
		HandlerMiddlewares: options.Middlewares,
		ErrorHandlerFunc:   options.ErrorHandlerFunc,
	}
	base := options.BaseURL

	r.Group(func(r chi.Router) {
		r.Post(base+"/accounts", wrapper.RegisterAccount)
		r.Get(base+"/accounts/{accountId}", wrapper.withID("accountId", si.GetAccount))
		r.Put(base+"/accounts/{accountId}", wrapper.withID("accountId", si.UpdateAccount))
		r.Get(base+"/accounts/{accountId}/transactions", wrapper.withID("accountId", si.ListAccountTransactions))
		r.Get(base+"/accounts/{accountId}/projects", wrapper.withID("accountId", si.ListAccountProjects))
		r.Get(base+"/accounts/{accountId}/reconciliation", wrapper.withID("accountId", si.ReconcileAccount))
		r.Post(base+"/accounts/{accountId}/credit", wrapper.withID("accountId", si.CreditAccount))
		r.Post(base+"/accounts/{accountId}/debit", wrapper.withID("accountId", si.DebitAccount))
		r.Post(base+"/accounts/{accountId}/referral", wrapper.withID("accountId", si.EarnReferralCredit))
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/freelancers", wrapper.SearchFreelancers)
		r.Get(base+"/freelancers/{freelancerId}/reviews", wrapper.withID("freelancerId", si.ListFreelancerReviews))
		r.Post(base+"/freelancers/{freelancerId}/reviews", wrapper.withID("freelancerId", si.SubmitReview))
		r.Put(base+"/reviews/{reviewId}", wrapper.withID("reviewId", si.EditReview))
	})
	r.Group(func(r chi.Router) {
		r.Post(base+"/projects", wrapper.PostProject)
		r.Get(base+"/projects/{projectId}", wrapper.withID("projectId", si.GetProject))
		r.Put(base+"/projects/{projectId}", wrapper.withID("projectId", si.UpdateProject))
		r.Post(base+"/projects/{projectId}/assign", wrapper.withLifecycle(si.AssignFreelancer))
		r.Post(base+"/projects/{projectId}/complete", wrapper.withLifecycle(si.CompleteProject))
		r.Post(base+"/projects/{projectId}/cancel", wrapper.withLifecycle(si.CancelProject))
		r.Post(base+"/projects/{projectId}/apply", wrapper.withID("projectId", si.ApplyToProject))
		r.Post(base+"/projects/{projectId}/reviews", wrapper.withID("projectId", si.SubmitProjectReview))
	})
	r.Group(func(r chi.Router) {
		r.Get(base+"/agreements/{agreementId}", wrapper.withID("agreementId", si.GetAgreement))
		r.Post(base+"/agreements/{agreementId}/accept", wrapper.withID("agreementId", si.AcceptAgreement))
	})

	return r
}
