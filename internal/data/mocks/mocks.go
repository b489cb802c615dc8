// Package mocks provides in-memory implementations of the data store
// interfaces so handler and property tests run without a MongoDB instance.
// The mocks honor the same contract as the real models: boundary sorting,
// read-time reference resolution, ErrRecordNotFound, full-document updates.
package mocks

import (
	"context"
	"sort"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jonathanbernal/library-tutorial/internal/data"
)

// Store holds every collection behind one mutex. The per-entity store
// types below are views over the same Store so the book store can resolve
// author and genre references the way the aggregation pipelines do.
type Store struct {
	mu        sync.Mutex
	authors   map[primitive.ObjectID]data.Author
	genres    map[primitive.ObjectID]data.Genre
	books     map[primitive.ObjectID]data.Book
	instances map[primitive.ObjectID]data.BookInstance
}

// NewStore returns an empty in-memory store.
func NewStore() *Store {
	return &Store{
		authors:   make(map[primitive.ObjectID]data.Author),
		genres:    make(map[primitive.ObjectID]data.Genre),
		books:     make(map[primitive.ObjectID]data.Book),
		instances: make(map[primitive.ObjectID]data.BookInstance),
	}
}

// Models returns a data.Models wired to this store, mirroring
// data.NewModels for the real database.
func (s *Store) Models() data.Models {
	return data.Models{
		Authors:       &AuthorStore{s},
		Books:         &BookStore{s},
		Genres:        &GenreStore{s},
		BookInstances: &BookInstanceStore{s},
	}
}

// AuthorStore is the in-memory data.AuthorStore.
type AuthorStore struct{ s *Store }

func (m *AuthorStore) GetAll(ctx context.Context) ([]*data.Author, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	authors := make([]*data.Author, 0, len(m.s.authors))
	for _, a := range m.s.authors {
		author := a
		authors = append(authors, &author)
	}
	sort.Slice(authors, func(i, j int) bool {
		return authors[i].FamilyName < authors[j].FamilyName
	})
	return authors, nil
}

func (m *AuthorStore) Get(ctx context.Context, id primitive.ObjectID) (*data.Author, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	author, ok := m.s.authors[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return &author, nil
}

func (m *AuthorStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.authors)), nil
}

func (m *AuthorStore) Insert(ctx context.Context, author *data.Author) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if author.ID.IsZero() {
		author.ID = primitive.NewObjectID()
	}
	m.s.authors[author.ID] = *author
	return nil
}

func (m *AuthorStore) Update(ctx context.Context, author *data.Author) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.authors[author.ID]; !ok {
		return data.ErrRecordNotFound
	}
	m.s.authors[author.ID] = *author
	return nil
}

func (m *AuthorStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.authors[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(m.s.authors, id)
	return nil
}

// GenreStore is the in-memory data.GenreStore.
type GenreStore struct{ s *Store }

func (m *GenreStore) GetAll(ctx context.Context) ([]*data.Genre, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	genres := make([]*data.Genre, 0, len(m.s.genres))
	for _, g := range m.s.genres {
		genre := g
		genres = append(genres, &genre)
	}
	sort.Slice(genres, func(i, j int) bool { return genres[i].Name < genres[j].Name })
	return genres, nil
}

func (m *GenreStore) Get(ctx context.Context, id primitive.ObjectID) (*data.Genre, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	genre, ok := m.s.genres[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	return &genre, nil
}

func (m *GenreStore) GetByName(ctx context.Context, name string) (*data.Genre, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	for _, g := range m.s.genres {
		if g.Name == name {
			genre := g
			return &genre, nil
		}
	}
	return nil, data.ErrRecordNotFound
}

func (m *GenreStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.genres)), nil
}

func (m *GenreStore) Insert(ctx context.Context, genre *data.Genre) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if genre.ID.IsZero() {
		genre.ID = primitive.NewObjectID()
	}
	m.s.genres[genre.ID] = *genre
	return nil
}

func (m *GenreStore) Update(ctx context.Context, genre *data.Genre) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.genres[genre.ID]; !ok {
		return data.ErrRecordNotFound
	}
	m.s.genres[genre.ID] = *genre
	return nil
}

func (m *GenreStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.genres[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(m.s.genres, id)
	return nil
}

// BookStore is the in-memory data.BookStore.
type BookStore struct{ s *Store }

// resolve fills the Author and Genres fields from sibling collections,
// standing in for the $lookup stages of the real model. Caller holds the lock.
func (m *BookStore) resolve(book *data.Book) {
	if author, ok := m.s.authors[book.AuthorID]; ok {
		a := author
		book.Author = &a
	}
	for _, id := range book.GenreIDs {
		if genre, ok := m.s.genres[id]; ok {
			book.Genres = append(book.Genres, genre)
		}
	}
}

func (m *BookStore) GetAll(ctx context.Context) ([]*data.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	books := make([]*data.Book, 0, len(m.s.books))
	for _, b := range m.s.books {
		book := b
		if author, ok := m.s.authors[book.AuthorID]; ok {
			a := author
			book.Author = &a
		}
		books = append(books, &book)
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (m *BookStore) Get(ctx context.Context, id primitive.ObjectID) (*data.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	book, ok := m.s.books[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	m.resolve(&book)
	return &book, nil
}

func (m *BookStore) GetByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*data.Book, error) {
	return m.filter(func(b data.Book) bool { return b.AuthorID == authorID })
}

func (m *BookStore) GetByGenre(ctx context.Context, genreID primitive.ObjectID) ([]*data.Book, error) {
	return m.filter(func(b data.Book) bool {
		for _, id := range b.GenreIDs {
			if id == genreID {
				return true
			}
		}
		return false
	})
}

func (m *BookStore) filter(keep func(data.Book) bool) ([]*data.Book, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	books := []*data.Book{}
	for _, b := range m.s.books {
		if keep(b) {
			book := b
			books = append(books, &book)
		}
	}
	sort.Slice(books, func(i, j int) bool { return books[i].Title < books[j].Title })
	return books, nil
}

func (m *BookStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.books)), nil
}

func (m *BookStore) Insert(ctx context.Context, book *data.Book) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if book.ID.IsZero() {
		book.ID = primitive.NewObjectID()
	}
	stored := *book
	stored.Author = nil
	stored.Genres = nil
	m.s.books[book.ID] = stored
	return nil
}

func (m *BookStore) Update(ctx context.Context, book *data.Book) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.books[book.ID]; !ok {
		return data.ErrRecordNotFound
	}
	stored := *book
	stored.Author = nil
	stored.Genres = nil
	m.s.books[book.ID] = stored
	return nil
}

func (m *BookStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.books[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(m.s.books, id)
	return nil
}

// BookInstanceStore is the in-memory data.BookInstanceStore.
type BookInstanceStore struct{ s *Store }

func (m *BookInstanceStore) GetAll(ctx context.Context) ([]*data.BookInstance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	instances := make([]*data.BookInstance, 0, len(m.s.instances))
	for _, in := range m.s.instances {
		instance := in
		if book, ok := m.s.books[instance.BookID]; ok {
			b := book
			instance.Book = &b
		}
		instances = append(instances, &instance)
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Status < instances[j].Status
	})
	return instances, nil
}

func (m *BookInstanceStore) Get(ctx context.Context, id primitive.ObjectID) (*data.BookInstance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	instance, ok := m.s.instances[id]
	if !ok {
		return nil, data.ErrRecordNotFound
	}
	if book, ok := m.s.books[instance.BookID]; ok {
		b := book
		instance.Book = &b
	}
	return &instance, nil
}

func (m *BookInstanceStore) GetByBook(ctx context.Context, bookID primitive.ObjectID) ([]*data.BookInstance, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	instances := []*data.BookInstance{}
	for _, in := range m.s.instances {
		if in.BookID == bookID {
			instance := in
			instances = append(instances, &instance)
		}
	}
	sort.Slice(instances, func(i, j int) bool {
		return instances[i].Imprint < instances[j].Imprint
	})
	return instances, nil
}

func (m *BookInstanceStore) Count(ctx context.Context) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()
	return int64(len(m.s.instances)), nil
}

func (m *BookInstanceStore) CountByStatus(ctx context.Context, status data.InstanceStatus) (int64, error) {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	var n int64
	for _, in := range m.s.instances {
		if in.Status == status {
			n++
		}
	}
	return n, nil
}

func (m *BookInstanceStore) Insert(ctx context.Context, instance *data.BookInstance) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if instance.ID.IsZero() {
		instance.ID = primitive.NewObjectID()
	}
	stored := *instance
	stored.Book = nil
	m.s.instances[instance.ID] = stored
	return nil
}

func (m *BookInstanceStore) Update(ctx context.Context, instance *data.BookInstance) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.instances[instance.ID]; !ok {
		return data.ErrRecordNotFound
	}
	stored := *instance
	stored.Book = nil
	m.s.instances[instance.ID] = stored
	return nil
}

func (m *BookInstanceStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	m.s.mu.Lock()
	defer m.s.mu.Unlock()

	if _, ok := m.s.instances[id]; !ok {
		return data.ErrRecordNotFound
	}
	delete(m.s.instances, id)
	return nil
}
