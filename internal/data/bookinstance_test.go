package data

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInstanceStatusValues(t *testing.T) {
	assert.Equal(t, []string{"Available", "Maintenance", "Loaned", "Reserved"}, InstanceStatusValues())
}

func TestBookInstanceDueBack(t *testing.T) {
	t.Run("no due date", func(t *testing.T) {
		in := BookInstance{Status: StatusAvailable}
		assert.Equal(t, "", in.DueBackISO())
		assert.Equal(t, "", in.DueBackFormatted())
	})

	t.Run("with due date", func(t *testing.T) {
		due := time.Date(2026, time.September, 14, 0, 0, 0, 0, time.UTC)
		in := BookInstance{Status: StatusLoaned, DueBack: &due}
		assert.Equal(t, "2026-09-14", in.DueBackISO())
		assert.Equal(t, "Sep 14, 2026", in.DueBackFormatted())
	})
}

func TestBookURL(t *testing.T) {
	id := primitive.NewObjectID()
	b := Book{ID: id}
	assert.Equal(t, "/catalog/book/"+id.Hex(), b.URL())
}
