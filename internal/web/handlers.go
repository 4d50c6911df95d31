package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"anime-vault-go/internal/api"
	"anime-vault-go/internal/marketplace"
	"anime-vault-go/internal/models"
	"anime-vault-go/internal/tokenize"
	"anime-vault-go/internal/wallet"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.vault.HealthCheck(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy", "error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleWalletState(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.wallet.State())
}

func (s *Server) handleWalletConnect(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.ConnectWallet(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.wallet.State())
}

func (s *Server) handleWalletDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.wallet.DisconnectWallet(r.Context()); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, s.wallet.State())
}

type validateRequest struct {
	Step  tokenize.Step  `json:"step"`
	Draft tokenize.Draft `json:"draft"`
}

type validateResponse struct {
	Step    tokenize.Step     `json:"step"`
	Valid   bool              `json:"valid"`
	Missing []string          `json:"missing,omitempty"`
	Invalid []string          `json:"invalid,omitempty"`
	Preview *tokenize.Preview `json:"preview,omitempty"`
}

// handleValidate checks the fields of the given wizard step and returns the
// step the wizard moves to.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("error parsing request body: %v", err))
		return
	}

	var result tokenize.ValidationResult
	switch req.Step {
	case tokenize.StepItemDetails:
		result = tokenize.ValidateDetails(req.Draft.Details)
	case tokenize.StepVerification:
		result = tokenize.ValidateVerification(req.Draft.Verification)
	case tokenize.StepPreview:
		result = tokenize.Validate(req.Draft)
	default:
		writeBadRequest(w, fmt.Sprintf("invalid step %d", req.Step))
		return
	}

	resp := validateResponse{
		Step:    tokenize.Next(req.Step, result),
		Valid:   result.Valid(),
		Missing: result.Missing,
		Invalid: result.Invalid,
	}
	if resp.Step == tokenize.StepPreview {
		preview := req.Draft.Preview()
		resp.Preview = &preview
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleMint(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes)
	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeBadRequest(w, fmt.Sprintf("error parsing upload: %v", err))
		return
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	draft, err := draftFromForm(r.MultipartForm)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	result, err := s.vault.Mint(r.Context(), draft)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func draftFromForm(form *multipart.Form) (tokenize.Draft, error) {
	value := func(key string) string {
		if v := form.Value[key]; len(v) > 0 {
			return strings.TrimSpace(v[0])
		}
		return ""
	}

	details := tokenize.ItemDetails{
		Name:         value("item_name"),
		Description:  value("description"),
		Category:     models.Category(value("category")),
		Rarity:       models.Rarity(value("rarity")),
		Series:       value("series"),
		Character:    value("character"),
		Manufacturer: value("manufacturer"),
		Condition:    value("condition"),
	}
	if year := value("release_year"); year != "" {
		parsed, err := strconv.Atoi(year)
		if err != nil {
			return tokenize.Draft{}, fmt.Errorf("invalid release_year %q", year)
		}
		details.ReleaseYear = &parsed
	}

	var err error
	if details.Images, err = readFiles(form, "images"); err != nil {
		return tokenize.Draft{}, err
	}

	var verification tokenize.Verification
	if verification.Photos, err = readFiles(form, "photos"); err != nil {
		return tokenize.Draft{}, err
	}
	if verification.Certificates, err = readFiles(form, "certificates"); err != nil {
		return tokenize.Draft{}, err
	}
	if verification.ProvenanceDocuments, err = readFiles(form, "provenance_documents"); err != nil {
		return tokenize.Draft{}, err
	}

	return tokenize.Draft{Details: details, Verification: verification}, nil
}

func readFiles(form *multipart.Form, field string) ([]tokenize.ImageFile, error) {
	headers := form.File[field]
	files := make([]tokenize.ImageFile, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("unable to open %s: %w", header.Filename, err)
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", header.Filename, err)
		}
		files = append(files, tokenize.ImageFile{
			Filename:    header.Filename,
			ContentType: header.Header.Get("Content-Type"),
			Data:        data,
		})
	}
	return files, nil
}

func (s *Server) handleMarketplace(w http.ResponseWriter, r *http.Request) {
	filter, order, err := parseMarketplaceQuery(r)
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	listings, err := s.vault.Marketplace(r.Context(), filter, order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"listings": listings, "count": len(listings)})
}

func parseMarketplaceQuery(r *http.Request) (marketplace.Filter, marketplace.SortOrder, error) {
	query := r.URL.Query()
	filter := marketplace.Filter{Search: query.Get("search")}

	for _, c := range query["category"] {
		category := models.Category(c)
		if !category.Valid() {
			return filter, "", fmt.Errorf("unknown category %q", c)
		}
		filter.Categories = append(filter.Categories, category)
	}
	for _, v := range query["rarity"] {
		rarity := models.Rarity(v)
		if !rarity.Valid() {
			return filter, "", fmt.Errorf("unknown rarity %q", v)
		}
		filter.Rarities = append(filter.Rarities, rarity)
	}
	for _, v := range query["status"] {
		filter.Statuses = append(filter.Statuses, models.NFTStatus(v))
	}

	var err error
	if filter.MinPrice, err = parsePrice(query.Get("min_price")); err != nil {
		return filter, "", fmt.Errorf("invalid min_price: %w", err)
	}
	if filter.MaxPrice, err = parsePrice(query.Get("max_price")); err != nil {
		return filter, "", fmt.Errorf("invalid max_price: %w", err)
	}

	order, err := marketplace.ParseSortOrder(query.Get("sort"))
	if err != nil {
		return filter, "", err
	}
	return filter, order, nil
}

func parsePrice(s string) (decimal.NullDecimal, error) {
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, err
	}
	return decimal.NewNullDecimal(d), nil
}

func (s *Server) handleNFTDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.vault.NFTDetail(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

type listRequest struct {
	Price decimal.Decimal `json:"price"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeBadRequest(w, fmt.Sprintf("error parsing request body: %v", err))
		return
	}

	result, err := s.vault.ListForSale(r.Context(), mux.Vars(r)["id"], req.Price)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePurchase(w http.ResponseWriter, r *http.Request) {
	result, err := s.vault.Purchase(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter, err := marketplace.ParseCollectionFilter(r.URL.Query().Get("filter"))
	if err != nil {
		writeBadRequest(w, err.Error())
		return
	}

	dashboard, err := s.vault.Dashboard(r.Context(), mux.Vars(r)["address"], api.DashboardQuery{
		Filter: filter,
		Search: r.URL.Query().Get("search"),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard)
}

type faucetRequest struct {
	Address string `json:"address"`
}

// handleFaucet funds the given address, or the connected wallet when none is given.
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	if s.faucet == nil {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "faucet not configured"})
		return
	}

	var req faucetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, fmt.Sprintf("error parsing request body: %v", err))
		return
	}
	if req.Address == "" {
		state := s.wallet.State()
		if !state.Connected {
			writeError(w, r, wallet.ErrNotConnected)
			return
		}
		req.Address = state.Address
	}

	resp, err := s.faucet.RequestFaucet(r.Context(), req.Address)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}
