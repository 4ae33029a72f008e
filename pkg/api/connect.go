package api

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

// Fully-qualified service names.
const (
	LedgerServiceName          = "payledger.v1.LedgerService"
	DashboardServiceName       = "payledger.v1.DashboardService"
	PublicDashboardServiceName = "payledger.v1.PublicDashboardService"
)

// Procedure paths. Each is the path component of the method's URL.
const (
	LedgerServiceCreateBillProcedure                  = "/" + LedgerServiceName + "/CreateBill"
	LedgerServiceListBillsProcedure                   = "/" + LedgerServiceName + "/ListBills"
	LedgerServiceShareBillProcedure                   = "/" + LedgerServiceName + "/ShareBill"
	LedgerServiceUnshareBillProcedure                 = "/" + LedgerServiceName + "/UnshareBill"
	LedgerServiceRecordPaymentProcedure               = "/" + LedgerServiceName + "/RecordPayment"
	LedgerServiceListPaymentsProcedure                = "/" + LedgerServiceName + "/ListPayments"
	LedgerServiceSetMonthlyFinanceProcedure           = "/" + LedgerServiceName + "/SetMonthlyFinance"
	LedgerServiceGetMonthlyFinanceProcedure           = "/" + LedgerServiceName + "/GetMonthlyFinance"
	DashboardServiceGetDashboardProcedure             = "/" + DashboardServiceName + "/GetDashboard"
	DashboardServiceIssueDashboardTokenProcedure      = "/" + DashboardServiceName + "/IssueDashboardToken"
	DashboardServiceRevokeDashboardTokenProcedure     = "/" + DashboardServiceName + "/RevokeDashboardToken"
	DashboardServiceSendMonthlySummaryProcedure       = "/" + DashboardServiceName + "/SendMonthlySummary"
	PublicDashboardServiceGetSharedDashboardProcedure = "/" + PublicDashboardServiceName + "/GetSharedDashboard"
)

// handlerOptions puts the JSON codec ahead of caller options.
func handlerOptions(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(Codec{})}, opts...)
}

func clientOptions(opts []connect.ClientOption) []connect.ClientOption {
	return append([]connect.ClientOption{connect.WithCodec(Codec{})}, opts...)
}

// NewClient builds a unary client for one procedure using the JSON codec.
func NewClient[Req, Res any](httpClient connect.HTTPClient, baseURL, procedure string, opts ...connect.ClientOption) *connect.Client[Req, Res] {
	return connect.NewClient[Req, Res](httpClient, strings.TrimRight(baseURL, "/")+procedure, clientOptions(opts)...)
}

// LedgerServiceHandler is implemented by the server side of LedgerService.
// LedgerService manages bills, access grants, payments and monthly finances. Every call requires a session.
type LedgerServiceHandler interface {
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	ShareBill(context.Context, *connect.Request[ShareBillRequest]) (*connect.Response[ShareBillResponse], error)
	UnshareBill(context.Context, *connect.Request[UnshareBillRequest]) (*connect.Response[UnshareBillResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	SetMonthlyFinance(context.Context, *connect.Request[SetMonthlyFinanceRequest]) (*connect.Response[SetMonthlyFinanceResponse], error)
	GetMonthlyFinance(context.Context, *connect.Request[GetMonthlyFinanceRequest]) (*connect.Response[GetMonthlyFinanceResponse], error)
}

// NewLedgerServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewLedgerServiceHandler(svc LedgerServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	createBillHandler := connect.NewUnaryHandler(LedgerServiceCreateBillProcedure, svc.CreateBill, opts...)
	listBillsHandler := connect.NewUnaryHandler(LedgerServiceListBillsProcedure, svc.ListBills, opts...)
	shareBillHandler := connect.NewUnaryHandler(LedgerServiceShareBillProcedure, svc.ShareBill, opts...)
	unshareBillHandler := connect.NewUnaryHandler(LedgerServiceUnshareBillProcedure, svc.UnshareBill, opts...)
	recordPaymentHandler := connect.NewUnaryHandler(LedgerServiceRecordPaymentProcedure, svc.RecordPayment, opts...)
	listPaymentsHandler := connect.NewUnaryHandler(LedgerServiceListPaymentsProcedure, svc.ListPayments, opts...)
	setMonthlyFinanceHandler := connect.NewUnaryHandler(LedgerServiceSetMonthlyFinanceProcedure, svc.SetMonthlyFinance, opts...)
	getMonthlyFinanceHandler := connect.NewUnaryHandler(LedgerServiceGetMonthlyFinanceProcedure, svc.GetMonthlyFinance, opts...)
	return "/" + LedgerServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case LedgerServiceCreateBillProcedure:
			createBillHandler.ServeHTTP(w, r)
		case LedgerServiceListBillsProcedure:
			listBillsHandler.ServeHTTP(w, r)
		case LedgerServiceShareBillProcedure:
			shareBillHandler.ServeHTTP(w, r)
		case LedgerServiceUnshareBillProcedure:
			unshareBillHandler.ServeHTTP(w, r)
		case LedgerServiceRecordPaymentProcedure:
			recordPaymentHandler.ServeHTTP(w, r)
		case LedgerServiceListPaymentsProcedure:
			listPaymentsHandler.ServeHTTP(w, r)
		case LedgerServiceSetMonthlyFinanceProcedure:
			setMonthlyFinanceHandler.ServeHTTP(w, r)
		case LedgerServiceGetMonthlyFinanceProcedure:
			getMonthlyFinanceHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// LedgerServiceClient is a client for LedgerService.
type LedgerServiceClient interface {
	CreateBill(context.Context, *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error)
	ListBills(context.Context, *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error)
	ShareBill(context.Context, *connect.Request[ShareBillRequest]) (*connect.Response[ShareBillResponse], error)
	UnshareBill(context.Context, *connect.Request[UnshareBillRequest]) (*connect.Response[UnshareBillResponse], error)
	RecordPayment(context.Context, *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error)
	ListPayments(context.Context, *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error)
	SetMonthlyFinance(context.Context, *connect.Request[SetMonthlyFinanceRequest]) (*connect.Response[SetMonthlyFinanceResponse], error)
	GetMonthlyFinance(context.Context, *connect.Request[GetMonthlyFinanceRequest]) (*connect.Response[GetMonthlyFinanceResponse], error)
}

// NewLedgerServiceClient creates a client for the service hosted at baseURL.
func NewLedgerServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) LedgerServiceClient {
	return &ledgerServiceClient{
		createBill:        NewClient[CreateBillRequest, CreateBillResponse](httpClient, baseURL, LedgerServiceCreateBillProcedure, opts...),
		listBills:         NewClient[ListBillsRequest, ListBillsResponse](httpClient, baseURL, LedgerServiceListBillsProcedure, opts...),
		shareBill:         NewClient[ShareBillRequest, ShareBillResponse](httpClient, baseURL, LedgerServiceShareBillProcedure, opts...),
		unshareBill:       NewClient[UnshareBillRequest, UnshareBillResponse](httpClient, baseURL, LedgerServiceUnshareBillProcedure, opts...),
		recordPayment:     NewClient[RecordPaymentRequest, RecordPaymentResponse](httpClient, baseURL, LedgerServiceRecordPaymentProcedure, opts...),
		listPayments:      NewClient[ListPaymentsRequest, ListPaymentsResponse](httpClient, baseURL, LedgerServiceListPaymentsProcedure, opts...),
		setMonthlyFinance: NewClient[SetMonthlyFinanceRequest, SetMonthlyFinanceResponse](httpClient, baseURL, LedgerServiceSetMonthlyFinanceProcedure, opts...),
		getMonthlyFinance: NewClient[GetMonthlyFinanceRequest, GetMonthlyFinanceResponse](httpClient, baseURL, LedgerServiceGetMonthlyFinanceProcedure, opts...),
	}
}

type ledgerServiceClient struct {
	createBill        *connect.Client[CreateBillRequest, CreateBillResponse]
	listBills         *connect.Client[ListBillsRequest, ListBillsResponse]
	shareBill         *connect.Client[ShareBillRequest, ShareBillResponse]
	unshareBill       *connect.Client[UnshareBillRequest, UnshareBillResponse]
	recordPayment     *connect.Client[RecordPaymentRequest, RecordPaymentResponse]
	listPayments      *connect.Client[ListPaymentsRequest, ListPaymentsResponse]
	setMonthlyFinance *connect.Client[SetMonthlyFinanceRequest, SetMonthlyFinanceResponse]
	getMonthlyFinance *connect.Client[GetMonthlyFinanceRequest, GetMonthlyFinanceResponse]
}

func (c *ledgerServiceClient) CreateBill(ctx context.Context, req *connect.Request[CreateBillRequest]) (*connect.Response[CreateBillResponse], error) {
	return c.createBill.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListBills(ctx context.Context, req *connect.Request[ListBillsRequest]) (*connect.Response[ListBillsResponse], error) {
	return c.listBills.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ShareBill(ctx context.Context, req *connect.Request[ShareBillRequest]) (*connect.Response[ShareBillResponse], error) {
	return c.shareBill.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) UnshareBill(ctx context.Context, req *connect.Request[UnshareBillRequest]) (*connect.Response[UnshareBillResponse], error) {
	return c.unshareBill.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) RecordPayment(ctx context.Context, req *connect.Request[RecordPaymentRequest]) (*connect.Response[RecordPaymentResponse], error) {
	return c.recordPayment.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) ListPayments(ctx context.Context, req *connect.Request[ListPaymentsRequest]) (*connect.Response[ListPaymentsResponse], error) {
	return c.listPayments.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) SetMonthlyFinance(ctx context.Context, req *connect.Request[SetMonthlyFinanceRequest]) (*connect.Response[SetMonthlyFinanceResponse], error) {
	return c.setMonthlyFinance.CallUnary(ctx, req)
}

func (c *ledgerServiceClient) GetMonthlyFinance(ctx context.Context, req *connect.Request[GetMonthlyFinanceRequest]) (*connect.Response[GetMonthlyFinanceResponse], error) {
	return c.getMonthlyFinance.CallUnary(ctx, req)
}

// DashboardServiceHandler is implemented by the server side of DashboardService.
// DashboardService serves period summaries and manages dashboard tokens. Every call requires a session.
type DashboardServiceHandler interface {
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
	IssueDashboardToken(context.Context, *connect.Request[IssueDashboardTokenRequest]) (*connect.Response[IssueDashboardTokenResponse], error)
	RevokeDashboardToken(context.Context, *connect.Request[RevokeDashboardTokenRequest]) (*connect.Response[RevokeDashboardTokenResponse], error)
	SendMonthlySummary(context.Context, *connect.Request[SendMonthlySummaryRequest]) (*connect.Response[SendMonthlySummaryResponse], error)
}

// NewDashboardServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewDashboardServiceHandler(svc DashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getDashboardHandler := connect.NewUnaryHandler(DashboardServiceGetDashboardProcedure, svc.GetDashboard, opts...)
	issueDashboardTokenHandler := connect.NewUnaryHandler(DashboardServiceIssueDashboardTokenProcedure, svc.IssueDashboardToken, opts...)
	revokeDashboardTokenHandler := connect.NewUnaryHandler(DashboardServiceRevokeDashboardTokenProcedure, svc.RevokeDashboardToken, opts...)
	sendMonthlySummaryHandler := connect.NewUnaryHandler(DashboardServiceSendMonthlySummaryProcedure, svc.SendMonthlySummary, opts...)
	return "/" + DashboardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case DashboardServiceGetDashboardProcedure:
			getDashboardHandler.ServeHTTP(w, r)
		case DashboardServiceIssueDashboardTokenProcedure:
			issueDashboardTokenHandler.ServeHTTP(w, r)
		case DashboardServiceRevokeDashboardTokenProcedure:
			revokeDashboardTokenHandler.ServeHTTP(w, r)
		case DashboardServiceSendMonthlySummaryProcedure:
			sendMonthlySummaryHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// DashboardServiceClient is a client for DashboardService.
type DashboardServiceClient interface {
	GetDashboard(context.Context, *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error)
	IssueDashboardToken(context.Context, *connect.Request[IssueDashboardTokenRequest]) (*connect.Response[IssueDashboardTokenResponse], error)
	RevokeDashboardToken(context.Context, *connect.Request[RevokeDashboardTokenRequest]) (*connect.Response[RevokeDashboardTokenResponse], error)
	SendMonthlySummary(context.Context, *connect.Request[SendMonthlySummaryRequest]) (*connect.Response[SendMonthlySummaryResponse], error)
}

// NewDashboardServiceClient creates a client for the service hosted at baseURL.
func NewDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) DashboardServiceClient {
	return &dashboardServiceClient{
		getDashboard:         NewClient[GetDashboardRequest, GetDashboardResponse](httpClient, baseURL, DashboardServiceGetDashboardProcedure, opts...),
		issueDashboardToken:  NewClient[IssueDashboardTokenRequest, IssueDashboardTokenResponse](httpClient, baseURL, DashboardServiceIssueDashboardTokenProcedure, opts...),
		revokeDashboardToken: NewClient[RevokeDashboardTokenRequest, RevokeDashboardTokenResponse](httpClient, baseURL, DashboardServiceRevokeDashboardTokenProcedure, opts...),
		sendMonthlySummary:   NewClient[SendMonthlySummaryRequest, SendMonthlySummaryResponse](httpClient, baseURL, DashboardServiceSendMonthlySummaryProcedure, opts...),
	}
}

type dashboardServiceClient struct {
	getDashboard         *connect.Client[GetDashboardRequest, GetDashboardResponse]
	issueDashboardToken  *connect.Client[IssueDashboardTokenRequest, IssueDashboardTokenResponse]
	revokeDashboardToken *connect.Client[RevokeDashboardTokenRequest, RevokeDashboardTokenResponse]
	sendMonthlySummary   *connect.Client[SendMonthlySummaryRequest, SendMonthlySummaryResponse]
}

func (c *dashboardServiceClient) GetDashboard(ctx context.Context, req *connect.Request[GetDashboardRequest]) (*connect.Response[GetDashboardResponse], error) {
	return c.getDashboard.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) IssueDashboardToken(ctx context.Context, req *connect.Request[IssueDashboardTokenRequest]) (*connect.Response[IssueDashboardTokenResponse], error) {
	return c.issueDashboardToken.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) RevokeDashboardToken(ctx context.Context, req *connect.Request[RevokeDashboardTokenRequest]) (*connect.Response[RevokeDashboardTokenResponse], error) {
	return c.revokeDashboardToken.CallUnary(ctx, req)
}

func (c *dashboardServiceClient) SendMonthlySummary(ctx context.Context, req *connect.Request[SendMonthlySummaryRequest]) (*connect.Response[SendMonthlySummaryResponse], error) {
	return c.sendMonthlySummary.CallUnary(ctx, req)
}

// PublicDashboardServiceHandler is implemented by the server side of PublicDashboardService.
// PublicDashboardService serves token-scoped read-only summaries without a session.
type PublicDashboardServiceHandler interface {
	GetSharedDashboard(context.Context, *connect.Request[GetSharedDashboardRequest]) (*connect.Response[GetSharedDashboardResponse], error)
}

// NewPublicDashboardServiceHandler builds an HTTP handler for svc and returns the path to mount it on.
func NewPublicDashboardServiceHandler(svc PublicDashboardServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	getSharedDashboardHandler := connect.NewUnaryHandler(PublicDashboardServiceGetSharedDashboardProcedure, svc.GetSharedDashboard, opts...)
	return "/" + PublicDashboardServiceName + "/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case PublicDashboardServiceGetSharedDashboardProcedure:
			getSharedDashboardHandler.ServeHTTP(w, r)
		default:
			http.NotFound(w, r)
		}
	})
}

// PublicDashboardServiceClient is a client for PublicDashboardService.
type PublicDashboardServiceClient interface {
	GetSharedDashboard(context.Context, *connect.Request[GetSharedDashboardRequest]) (*connect.Response[GetSharedDashboardResponse], error)
}

// NewPublicDashboardServiceClient creates a client for the service hosted at baseURL.
func NewPublicDashboardServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PublicDashboardServiceClient {
	return &publicDashboardServiceClient{
		getSharedDashboard: NewClient[GetSharedDashboardRequest, GetSharedDashboardResponse](httpClient, baseURL, PublicDashboardServiceGetSharedDashboardProcedure, opts...),
	}
}

type publicDashboardServiceClient struct {
	getSharedDashboard *connect.Client[GetSharedDashboardRequest, GetSharedDashboardResponse]
}

func (c *publicDashboardServiceClient) GetSharedDashboard(ctx context.Context, req *connect.Request[GetSharedDashboardRequest]) (*connect.Response[GetSharedDashboardResponse], error) {
	return c.getSharedDashboard.CallUnary(ctx, req)
}
