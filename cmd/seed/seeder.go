package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strconv"

	"github.com/storeline/products/internal/domain"
	"github.com/storeline/products/pkg/database"
	apperrors "github.com/storeline/products/pkg/errors"
	"github.com/storeline/products/pkg/httpclient"
	"github.com/storeline/products/pkg/slug"
)

type productDef struct {
	name        string
	description string
	category    string
	brand       string
	price       string
	rating      int
	review      string
}

var seedCategories = []string{"Electronics", "Clothing", "Home & Kitchen", "Sports & Outdoors", "Books"}

var seedProducts = []productDef{
	{"Wireless Bluetooth Headphones", "Noise-cancelling over-ear headphones with 30-hour battery life.", "Electronics", "TechBrand", "79.99", 5, "Battery lasts forever."},
	{"USB-C Hub Adapter", "7-in-1 hub with HDMI 4K output, three USB 3.0 ports and an SD card reader.", "Electronics", "TechBrand", "34.99", 4, "Runs a little warm."},
	{"Mechanical Keyboard", "RGB backlit keyboard with tactile switches and a detachable wrist rest.", "Electronics", "TechBrand", "89.99", 5, "Loud in the best way."},
	{"Classic Cotton T-Shirt", "Everyday tee made from organic cotton with a relaxed fit.", "Clothing", "StyleCo", "24.99", 4, "Soft, true to size."},
	{"Running Shoes", "Lightweight running shoes with responsive cushioning.", "Clothing", "StyleCo", "89.99", 3, "Great grip, narrow toe box."},
	{"Rain Jacket", "Waterproof breathable jacket with sealed seams and an adjustable hood.", "Clothing", "StyleCo", "79.99", 5, "Kept me dry all week."},
	{"Coffee Maker", "12-cup programmable drip brewer with thermal carafe.", "Home & Kitchen", "HomeEssentials", "49.99", 4, "Coffee stays hot."},
	{"Cast Iron Skillet", "Pre-seasoned 12-inch skillet, oven safe to 260C.", "Home & Kitchen", "HomeEssentials", "34.99", 5, "Heavy and perfect."},
	{"Yoga Mat Premium", "Non-slip 6mm exercise mat with alignment markings.", "Sports & Outdoors", "SportPro", "29.99", 4, "Does not slide around."},
	{"Hiking Backpack 50L", "Adventure backpack with adjustable suspension and rain cover.", "Sports & Outdoors", "SportPro", "89.99", 5, "Comfortable on long trails."},
	{"The Go Programming Language", "Guide to Go covering the fundamentals and advanced topics.", "Books", "BookWorld", "39.99", 5, "The reference I keep open."},
	{"Designing Data-Intensive Apps", "Ideas behind reliable, scalable and maintainable data systems.", "Books", "BookWorld", "44.99", 5, "Dense but worth it."},
}

const upsertCategory = `
	WITH existing AS (
		SELECT id FROM categories WHERE name = $1
	), inserted AS (
		INSERT INTO categories (name)
		SELECT $1 WHERE NOT EXISTS (SELECT 1 FROM existing)
		RETURNING id
	)
	SELECT id FROM inserted
	UNION ALL
	SELECT id FROM existing`

// ensureCategories makes sure every name exists in categories and returns
// the ids by name. The products service only reads categories, so they are
// written directly.
func ensureCategories(ctx context.Context, db database.DBTX, names []string) (map[string]int64, error) {
	ids := make(map[string]int64, len(names))
	for _, name := range names {
		var id int64
		if err := db.QueryRow(ctx, upsertCategory, name).Scan(&id); err != nil {
			return nil, fmt.Errorf("ensure category %q: %w", name, err)
		}
		ids[name] = id
	}
	return ids, nil
}

// apiClient calls the products API the way storefront clients do.
type apiClient struct {
	http       *httpclient.CircuitBreakerClient
	baseURL    string
	adminToken string
	userToken  string
}

type createProductResponse struct {
	ProductID int64 `json:"productid"`
}

type createReviewResponse struct {
	ReviewID int64 `json:"reviewid"`
}

func (c *apiClient) createProduct(ctx context.Context, p productDef, categoryID int64, img []byte) (int64, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fields := [][2]string{
		{"name", p.name},
		{"description", p.description},
		{"categoryid", strconv.FormatInt(categoryID, 10)},
		{"brand", p.brand},
		{"price", p.price},
	}
	for _, f := range fields {
		if err := mw.WriteField(f[0], f[1]); err != nil {
			return 0, fmt.Errorf("write field %s: %w", f[0], err)
		}
	}
	if img != nil {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, domain.ImageField, slug.Generate(p.name)+".png"))
		h.Set("Content-Type", "image/png")
		part, err := mw.CreatePart(h)
		if err != nil {
			return 0, fmt.Errorf("create image part: %w", err)
		}
		if _, err := part.Write(img); err != nil {
			return 0, fmt.Errorf("write image part: %w", err)
		}
	}
	if err := mw.Close(); err != nil {
		return 0, fmt.Errorf("close multipart body: %w", err)
	}

	var out createProductResponse
	if err := c.post(ctx, "/api/products", c.adminToken, mw.FormDataContentType(), &body, &out); err != nil {
		return 0, err
	}
	return out.ProductID, nil
}

func (c *apiClient) createReview(ctx context.Context, productID int64, rating int, text string) (int64, error) {
	payload, err := json.Marshal(map[string]any{"rating": rating, "review": text})
	if err != nil {
		return 0, fmt.Errorf("marshal review: %w", err)
	}

	var out createReviewResponse
	path := "/api/products/" + strconv.FormatInt(productID, 10) + "/review"
	if err := c.post(ctx, path, c.userToken, "application/json", bytes.NewReader(payload), &out); err != nil {
		return 0, err
	}
	return out.ReviewID, nil
}

func (c *apiClient) post(ctx context.Context, path, token, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return fmt.Errorf("POST %s: %w", path, err)
	}
	if resp.StatusCode != http.StatusCreated {
		return httpclient.ParseResponseError(resp, "products")
	}
	defer func() { _ = resp.Body.Close() }()

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s response: %w", path, err)
	}
	return nil
}

// seeder creates categories, products and one review per product.
type seeder struct {
	db         database.DBTX
	api        *apiClient
	withImages bool
	logger     *slog.Logger
}

type seedResult struct {
	products int
	reviews  int
}

func (s *seeder) run(ctx context.Context) (seedResult, error) {
	var res seedResult

	categories, err := ensureCategories(ctx, s.db, seedCategories)
	if err != nil {
		return res, err
	}
	s.logger.Info("categories ready", slog.Int("count", len(categories)))

	for i, p := range seedProducts {
		var img []byte
		if s.withImages {
			if img, err = placeholderPNG(i); err != nil {
				return res, err
			}
		}

		id, err := s.api.createProduct(ctx, p, categories[p.category], img)
		if err != nil {
			if isFatal(err) {
				return res, fmt.Errorf("create product %q: %w", p.name, err)
			}
			s.logger.Warn("skipping product", slog.String("name", p.name), slog.String("error", err.Error()))
			continue
		}
		res.products++
		s.logger.Info("product created", slog.Int64("product_id", id), slog.String("name", p.name))

		if _, err := s.api.createReview(ctx, id, p.rating, p.review); err != nil {
			if isFatal(err) {
				return res, fmt.Errorf("review product %d: %w", id, err)
			}
			s.logger.Warn("skipping review", slog.Int64("product_id", id), slog.String("error", err.Error()))
			continue
		}
		res.reviews++
	}
	return res, nil
}

// isFatal reports errors that would fail every remaining request as well.
func isFatal(err error) bool {
	return errors.Is(err, httpclient.ErrCircuitOpen) ||
		errors.Is(err, apperrors.ErrUnauthorized) ||
		errors.Is(err, apperrors.ErrForbidden) ||
		errors.Is(err, context.Canceled) ||
		errors.Is(err, context.DeadlineExceeded)
}

// placeholderPNG renders a small solid square whose colour varies with n.
func placeholderPNG(n int) ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, 32, 32))
	fill := color.RGBA{R: uint8(40 * n), G: uint8(255 - 20*n), B: 160, A: 255}
	for y := 0; y < 32; y++ {
		for x := 0; x < 32; x++ {
			img.Set(x, y, fill)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode placeholder image: %w", err)
	}
	return buf.Bytes(), nil
}
