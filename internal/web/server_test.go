package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"anime-vault-go/internal/api"
	"anime-vault-go/internal/marketplace"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/onechain"
	"anime-vault-go/internal/store"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"github.com/google/go-cmp/cmp"
	"github.com/gorilla/websocket"
	"github.com/shopspring/decimal"
)

type fakeVault struct {
	mu sync.Mutex

	healthErr error
	mintErr   error
	listErr   error

	minted      []tokenize.Draft
	listedId    string
	listedPrice decimal.Decimal
	purchased   string
	filter      marketplace.Filter
	order       marketplace.SortOrder
	dashAddress string
	dashQuery   api.DashboardQuery
	nfts        map[string]models.NFT
}

func newFakeVault() *fakeVault {
	return &fakeVault{nfts: map[string]models.NFT{
		"0xnft1": {ObjectId: "0xnft1", Name: "Tanjiro Kamado Figure", Status: models.StatusMinted},
	}}
}

func (v *fakeVault) HealthCheck(context.Context) error {
	return v.healthErr
}

func (v *fakeVault) Mint(_ context.Context, draft tokenize.Draft) (*models.MintResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.mintErr != nil {
		return nil, v.mintErr
	}
	if result := tokenize.Validate(draft); !result.Valid() {
		return nil, result.Err()
	}
	v.minted = append(v.minted, draft)
	nft := models.NFT{ObjectId: "0xnft2", Name: draft.Details.Name, Status: models.StatusMinted}
	return &models.MintResult{NFT: &nft, TxDigest: "DIGEST1"}, nil
}

func (v *fakeVault) ListForSale(_ context.Context, objectId string, price decimal.Decimal) (*models.ListResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.listErr != nil {
		return nil, v.listErr
	}
	if !price.IsPositive() {
		return nil, onechain.ErrInvalidPrice
	}
	v.listedId = objectId
	v.listedPrice = price
	return &models.ListResult{ListingId: "0xlisting1", PriceOct: price, TxDigest: "DIGEST2"}, nil
}

func (v *fakeVault) Purchase(_ context.Context, objectId string) (*models.PurchaseResult, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.purchased = objectId
	return nil, api.ErrNotListed
}

func (v *fakeVault) Marketplace(_ context.Context, filter marketplace.Filter, order marketplace.SortOrder) ([]models.NFT, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.filter = filter
	v.order = order
	return []models.NFT{v.nfts["0xnft1"]}, nil
}

func (v *fakeVault) NFTDetail(_ context.Context, id string) (*models.NFTDetail, error) {
	nft, ok := v.nfts[id]
	if !ok {
		return nil, fmt.Errorf("unable to get nft: %w", store.ErrNFTNotFound)
	}
	return &models.NFTDetail{NFT: nft}, nil
}

func (v *fakeVault) Dashboard(_ context.Context, address string, query api.DashboardQuery) (*models.Dashboard, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.dashAddress = address
	v.dashQuery = query
	return &models.Dashboard{Address: address}, nil
}

type fakeWallet struct {
	mu         sync.Mutex
	state      wallet.State
	connectErr error
}

func (f *fakeWallet) ConnectWallet(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.connectErr != nil {
		return f.connectErr
	}
	f.state = wallet.State{Connected: true, Address: "0xa11ce", WalletName: "OneWallet"}
	return nil
}

func (f *fakeWallet) DisconnectWallet(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.state = wallet.State{}
	return nil
}

func (f *fakeWallet) State() wallet.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeWallet) Subscribe() (<-chan wallet.State, func()) {
	ch := make(chan wallet.State, 1)
	ch <- f.State()
	return ch, func() {}
}

type fakeFaucet struct {
	address string
}

func (f *fakeFaucet) RequestFaucet(_ context.Context, address string) (*onechain.FaucetResponse, error) {
	f.address = address
	return &onechain.FaucetResponse{TransferredGasObjects: []onechain.FaucetCoin{{Amount: 1_000_000_000, Id: "0xcoin"}}}, nil
}

type testEnv struct {
	vault  *fakeVault
	wallet *fakeWallet
	faucet *fakeFaucet
	server *Server
}

func setupTestEnv() *testEnv {
	env := &testEnv{vault: newFakeVault(), wallet: &fakeWallet{}, faucet: &fakeFaucet{}}
	env.server = NewServer(Config{
		Vault:   env.vault,
		Wallet:  env.wallet,
		Faucet:  env.faucet,
		Metrics: http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("# metrics\n")) }),
	})
	return env
}

func (e *testEnv) do(method, target string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.server.Handler().ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("Failed to decode response %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealth(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}

	env.vault.healthErr = errors.New("database is closed")
	rec = env.do(http.MethodGet, "/api/health", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}

func TestUnknownRoute(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/api/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("Expected 404, got %d", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != "route not found" {
		t.Errorf("Unexpected error %q", got.Error)
	}
}

func TestMetricsRoute(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/metrics", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "# metrics") {
		t.Errorf("Expected metrics handler output, got %d %q", rec.Code, rec.Body.String())
	}
}

func TestWalletConnectAndDisconnect(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodPost, "/api/wallet/connect", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	want := wallet.State{Connected: true, Address: "0xa11ce", WalletName: "OneWallet"}
	if diff := cmp.Diff(want, decode[wallet.State](t, rec)); diff != "" {
		t.Errorf("Connect state mismatch (-want +got):\n%s", diff)
	}

	rec = env.do(http.MethodPost, "/api/wallet/disconnect", "")
	if got := decode[wallet.State](t, rec); got.Connected {
		t.Errorf("Expected disconnected state, got %+v", got)
	}
}

func TestWalletConnectMissingExtension(t *testing.T) {
	env := setupTestEnv()
	env.wallet.connectErr = wallet.ErrWalletNotFound

	rec := env.do(http.MethodPost, "/api/wallet/connect", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("Expected 503, got %d", rec.Code)
	}
	if got := decode[errorResponse](t, rec); got.Error != wallet.ErrWalletNotFound.Error() {
		t.Errorf("Unexpected error %q", got.Error)
	}
}

func TestWalletEvents(t *testing.T) {
	env := setupTestEnv()
	env.wallet.state = wallet.State{Connected: true, Address: "0xa11ce"}

	srv := httptest.NewServer(env.server.Handler())
	defer srv.Close()

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/wallet/events"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	var msg eventMessage
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read event: %v", err)
	}
	want := eventMessage{Type: "wallet_state", Payload: wallet.State{Connected: true, Address: "0xa11ce"}}
	if diff := cmp.Diff(want, msg); diff != "" {
		t.Errorf("Event mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSteps(t *testing.T) {
	details := `{"item_name":"Tanjiro Kamado Figure","description":"1/7 scale","category":"figure","rarity":"rare",` +
		`"series":"Demon Slayer","character":"Tanjiro Kamado","images":[{"filename":"front.jpg"}]}`

	tests := []struct {
		name        string
		body        string
		wantStep    tokenize.Step
		wantValid   bool
		wantMissing []string
		wantPreview bool
	}{
		{
			name:        "empty details stay on step one",
			body:        `{"step":1,"draft":{"details":{}}}`,
			wantStep:    tokenize.StepItemDetails,
			wantMissing: []string{"item_name", "description", "category", "rarity", "series", "character", "images"},
		},
		{
			name:      "complete details advance",
			body:      `{"step":1,"draft":{"details":` + details + `}}`,
			wantStep:  tokenize.StepVerification,
			wantValid: true,
		},
		{
			name:        "verification without photos",
			body:        `{"step":2,"draft":{"details":` + details + `,"verification":{}}}`,
			wantStep:    tokenize.StepVerification,
			wantMissing: []string{"photos"},
		},
		{
			name:        "verification with photos reaches preview",
			body:        `{"step":2,"draft":{"details":` + details + `,"verification":{"photos":[{"filename":"proof.jpg"}]}}}`,
			wantStep:    tokenize.StepPreview,
			wantValid:   true,
			wantPreview: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv()
			rec := env.do(http.MethodPost, "/api/tokenize/validate", tt.body)
			if rec.Code != http.StatusOK {
				t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
			}
			got := decode[validateResponse](t, rec)
			if got.Step != tt.wantStep {
				t.Errorf("Expected step %v, got %v", tt.wantStep, got.Step)
			}
			if got.Valid != tt.wantValid {
				t.Errorf("Expected valid=%v, got %v", tt.wantValid, got.Valid)
			}
			if diff := cmp.Diff(tt.wantMissing, got.Missing); diff != "" {
				t.Errorf("Missing mismatch (-want +got):\n%s", diff)
			}
			if (got.Preview != nil) != tt.wantPreview {
				t.Errorf("Expected preview=%v, got %+v", tt.wantPreview, got.Preview)
			}
		})
	}
}

func TestValidateRejectsUnknownStep(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodPost, "/api/tokenize/validate", `{"step":9,"draft":{}}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func mintForm(t *testing.T, fields map[string]string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field: %v", err)
		}
	}
	for field, filename := range files {
		fw, err := mw.CreateFormFile(field, filename)
		if err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
		fw.Write([]byte("image bytes"))
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close form: %v", err)
	}
	return &buf, mw.FormDataContentType()
}

func TestMint(t *testing.T) {
	env := setupTestEnv()

	body, contentType := mintForm(t, map[string]string{
		"item_name":    "Tanjiro Kamado Figure",
		"description":  "1/7 scale PVC figure",
		"category":     "figure",
		"rarity":       "rare",
		"series":       "Demon Slayer",
		"character":    "Tanjiro Kamado",
		"release_year": "2021",
	}, map[string]string{"images": "front.jpg", "photos": "proof.jpg"})

	req := httptest.NewRequest(http.MethodPost, "/api/tokenize/mint", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if len(env.vault.minted) != 1 {
		t.Fatalf("Expected one mint, got %d", len(env.vault.minted))
	}
	draft := env.vault.minted[0]
	if draft.Details.ReleaseYear == nil || *draft.Details.ReleaseYear != 2021 {
		t.Errorf("Expected release year 2021, got %v", draft.Details.ReleaseYear)
	}
	if len(draft.Details.Images) != 1 || string(draft.Details.Images[0].Data) != "image bytes" {
		t.Errorf("Expected uploaded image data, got %+v", draft.Details.Images)
	}
	if got := decode[models.MintResult](t, rec); got.TxDigest != "DIGEST1" {
		t.Errorf("Expected digest DIGEST1, got %q", got.TxDigest)
	}
}

func TestMintValidationErrors(t *testing.T) {
	env := setupTestEnv()

	body, contentType := mintForm(t, map[string]string{"item_name": "Only a name"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/tokenize/mint", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", rec.Code)
	}
	got := decode[errorResponse](t, rec)
	if len(got.Missing) == 0 {
		t.Errorf("Expected missing fields, got %+v", got)
	}
}

func TestMintBadReleaseYear(t *testing.T) {
	env := setupTestEnv()

	body, contentType := mintForm(t, map[string]string{"release_year": "soon"}, nil)
	req := httptest.NewRequest(http.MethodPost, "/api/tokenize/mint", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestMintErrorStatus(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDigest string
	}{
		{"wallet not connected", wallet.ErrNotConnected, http.StatusUnauthorized, ""},
		{"contract missing", onechain.ErrContractNotConfigured, http.StatusServiceUnavailable, ""},
		{"in flight", api.ErrOperationInFlight, http.StatusConflict, ""},
		{"execution failed", fmt.Errorf("tx: %w", onechain.ErrExecutionFailed), http.StatusBadGateway, ""},
		{"mirror failure", &api.MirrorError{Op: "save nft", Digest: "DIGEST9", Err: errors.New("disk full")}, http.StatusInternalServerError, "DIGEST9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestEnv()
			env.vault.mintErr = tt.err

			body, contentType := mintForm(t, map[string]string{"item_name": "x"}, nil)
			req := httptest.NewRequest(http.MethodPost, "/api/tokenize/mint", body)
			req.Header.Set("Content-Type", contentType)
			rec := httptest.NewRecorder()
			env.server.Handler().ServeHTTP(rec, req)

			if rec.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if got := decode[errorResponse](t, rec); got.Digest != tt.wantDigest {
				t.Errorf("Expected digest %q, got %q", tt.wantDigest, got.Digest)
			}
		})
	}
}

func TestMarketplaceQuery(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/api/marketplace?search=tanjiro&category=figure&category=card&rarity=rare&min_price=1.5&sort=price-high", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	want := marketplace.Filter{
		Search:     "tanjiro",
		Categories: []models.Category{models.CategoryFigure, models.CategoryCard},
		Rarities:   []models.Rarity{models.RarityRare},
		MinPrice:   decimal.NewNullDecimal(decimal.RequireFromString("1.5")),
	}
	equalDecimal := cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, env.vault.filter, equalDecimal); diff != "" {
		t.Errorf("Filter mismatch (-want +got):\n%s", diff)
	}
	if env.vault.order != marketplace.SortPriceHigh {
		t.Errorf("Expected price-high, got %q", env.vault.order)
	}
}

func TestMarketplaceRejectsBadQuery(t *testing.T) {
	tests := []string{
		"/api/marketplace?category=plushie",
		"/api/marketplace?rarity=mythic",
		"/api/marketplace?min_price=cheap",
		"/api/marketplace?sort=random",
	}

	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			env := setupTestEnv()
			if rec := env.do(http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestNFTDetail(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/api/nfts/0xnft1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if got := decode[models.NFTDetail](t, rec); got.NFT.Name != "Tanjiro Kamado Figure" {
		t.Errorf("Unexpected NFT %+v", got.NFT)
	}

	if rec := env.do(http.MethodGet, "/api/nfts/0xmissing", ""); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
}

func TestListForSale(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodPost, "/api/nfts/0xnft1/list", `{"price":"12.5"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.vault.listedId != "0xnft1" || !env.vault.listedPrice.Equal(decimal.RequireFromString("12.5")) {
		t.Errorf("Unexpected listing %s at %s", env.vault.listedId, env.vault.listedPrice)
	}

	if rec := env.do(http.MethodPost, "/api/nfts/0xnft1/list", `{"price":"0"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for zero price, got %d", rec.Code)
	}
	if rec := env.do(http.MethodPost, "/api/nfts/0xnft1/list", `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for bad body, got %d", rec.Code)
	}

	env.vault.listErr = api.ErrNotOwner
	if rec := env.do(http.MethodPost, "/api/nfts/0xnft1/list", `{"price":"1"}`); rec.Code != http.StatusForbidden {
		t.Errorf("Expected 403 for foreign NFT, got %d", rec.Code)
	}
}

func TestPurchaseNotListed(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodPost, "/api/nfts/0xnft1/purchase", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
	if env.vault.purchased != "0xnft1" {
		t.Errorf("Expected purchase of 0xnft1, got %q", env.vault.purchased)
	}
}

func TestDashboardQuery(t *testing.T) {
	env := setupTestEnv()

	rec := env.do(http.MethodGet, "/api/dashboard/0xa11ce?filter=listed&search=figure", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.vault.dashAddress != "0xa11ce" {
		t.Errorf("Expected address 0xa11ce, got %q", env.vault.dashAddress)
	}
	want := api.DashboardQuery{Filter: marketplace.CollectionListed, Search: "figure"}
	if diff := cmp.Diff(want, env.vault.dashQuery); diff != "" {
		t.Errorf("Query mismatch (-want +got):\n%s", diff)
	}

	if rec := env.do(http.MethodGet, "/api/dashboard/0xa11ce?filter=bogus", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for unknown filter, got %d", rec.Code)
	}
}

func TestFaucet(t *testing.T) {
	env := setupTestEnv()

	if rec := env.do(http.MethodPost, "/api/faucet", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("Expected 401 without a connected wallet, got %d", rec.Code)
	}

	env.wallet.state = wallet.State{Connected: true, Address: "0xa11ce"}
	if rec := env.do(http.MethodPost, "/api/faucet", ""); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if env.faucet.address != "0xa11ce" {
		t.Errorf("Expected faucet for connected wallet, got %q", env.faucet.address)
	}

	if rec := env.do(http.MethodPost, "/api/faucet", `{"address":"0xb0b"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if env.faucet.address != "0xb0b" {
		t.Errorf("Expected faucet for 0xb0b, got %q", env.faucet.address)
	}
}
