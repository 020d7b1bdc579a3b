package application

import (
	"testing"

	"contentboost-shopify-layer/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text", "Du cuir véritable", "Du cuir véritable"},
		{"simple markup", "<p>Du <strong>cuir</strong> véritable</p>", "Du cuir véritable"},
		{"collapses whitespace", "<p>Du\n\ncuir</p>   <p>véritable</p>", "Du cuir véritable"},
		{"empty", "", ""},
		{"only markup", "<div><br/></div>", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StripHTML(tt.input))
		})
	}
}

func TestContentFromProduct(t *testing.T) {
	product := &ProductView{
		ID:    42,
		Title: "Chaussures en cuir",
		BodyHTML: `<h2>Matières</h2><p>Cuir pleine fleur.</p>` +
			`<h3>Entretien</h3><p>Cirage régulier.</p>` +
			`<h2>Livraison</h2><p>Sous 48h.</p>`,
		Tags: "cuir, chaussures , homme,",
		Images: []ImageView{
			{Width: 1200, Height: 800, Alt: "vue de face"},
			{Width: 400, Height: 300, Alt: ""},
		},
	}

	content := ContentFromProduct(product)

	assert.Equal(t, "Chaussures en cuir", content.Title)
	assert.Equal(t, "Chaussures en cuir", content.H1)
	assert.Equal(t,
		"Matières Cuir pleine fleur. Entretien Cirage régulier. Livraison Sous 48h.",
		content.Description)
	assert.Equal(t, []string{"Matières", "Livraison"}, content.H2)
	assert.Equal(t, []string{"Entretien"}, content.H3)
	assert.Equal(t, []string{"cuir", "chaussures", "homme"}, content.Keywords)
	require.Len(t, content.Images, 2)
	assert.Equal(t, 1200, content.Images[0].Width)
	assert.Equal(t, "vue de face", content.Images[0].Alt)
}

func TestContentFromCollection(t *testing.T) {
	collection := &CollectionView{
		ID:       7,
		Title:    "Collection été",
		BodyHTML: "<p>Les indispensables de l'été.</p>",
		Image:    &ImageView{Width: 1000, Height: 700, Alt: "plage"},
	}

	content := ContentFromCollection(collection)

	assert.Equal(t, "Collection été", content.H1)
	assert.Equal(t, "Les indispensables de l'été.", content.Description)
	require.Len(t, content.Images, 1)
	assert.Equal(t, "plage", content.Images[0].Alt)
	assert.Empty(t, content.Keywords)
}

func scoreResult(total int) *domain.ScoreResult {
	return &domain.ScoreResult{TotalScore: total}
}

func TestFilterProducts(t *testing.T) {
	products := []*ProductView{
		{ID: 1, Title: "Bottes en cuir", Status: "active", Tags: "cuir", Score: scoreResult(80)},
		{ID: 2, Title: "Sandales", Status: "draft", Tags: "été", Score: scoreResult(40)},
		{ID: 3, Title: "Baskets en toile", Status: "active", Tags: "toile", Score: scoreResult(60)},
	}

	t.Run("no options returns everything", func(t *testing.T) {
		got := filterProducts(products, ListOptions{})
		assert.Len(t, got, 3)
	})

	t.Run("status filter", func(t *testing.T) {
		got := filterProducts(products, ListOptions{Status: "active"})
		require.Len(t, got, 2)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
	})

	t.Run("search matches title and tags", func(t *testing.T) {
		byTitle := filterProducts(products, ListOptions{Search: "sandales"})
		require.Len(t, byTitle, 1)
		assert.Equal(t, int64(2), byTitle[0].ID)

		byTag := filterProducts(products, ListOptions{Search: "toile"})
		require.Len(t, byTag, 1)
		assert.Equal(t, int64(3), byTag[0].ID)
	})

	t.Run("sort by score descending", func(t *testing.T) {
		got := filterProducts(products, ListOptions{Sort: "score"})
		require.Len(t, got, 3)
		assert.Equal(t, int64(1), got[0].ID)
		assert.Equal(t, int64(3), got[1].ID)
		assert.Equal(t, int64(2), got[2].ID)
	})

	t.Run("sort by title", func(t *testing.T) {
		got := filterProducts(products, ListOptions{Sort: "title"})
		assert.Equal(t, int64(3), got[0].ID) // Baskets
		assert.Equal(t, int64(1), got[1].ID) // Bottes
		assert.Equal(t, int64(2), got[2].ID) // Sandales
	})

	t.Run("limit and offset", func(t *testing.T) {
		got := filterProducts(products, ListOptions{Limit: 1, Offset: 1})
		require.Len(t, got, 1)
		assert.Equal(t, int64(2), got[0].ID)

		assert.Empty(t, filterProducts(products, ListOptions{Offset: 10}))
	})
}
