package main

import (
	"fmt"
	"log"
	"time"

	"bookhaven/internal/config"
	"bookhaven/internal/database"
	"bookhaven/internal/models"
	"bookhaven/internal/repositories"
)

type seedBook struct {
	title       string
	description string
	language    string
	price       int
	published   time.Time
	isbn        string
	authors     []string
	genres      []string
}

var catalog = []seedBook{
	{
		title:       "Dune",
		description: "Paul Atreides leads nomadic tribes in a battle for the desert planet Arrakis.",
		language:    "English",
		price:       1299,
		published:   time.Date(1965, 8, 1, 0, 0, 0, 0, time.UTC),
		isbn:        "978-0441013593",
		authors:     []string{"Frank Herbert"},
		genres:      []string{"Science Fiction"},
	},
	{
		title:       "Foundation",
		description: "A mathematician foresees the fall of the Galactic Empire and plans humanity's recovery.",
		language:    "English",
		price:       999,
		published:   time.Date(1951, 6, 1, 0, 0, 0, 0, time.UTC),
		isbn:        "978-0553293357",
		authors:     []string{"Isaac Asimov"},
		genres:      []string{"Science Fiction"},
	},
	{
		title:       "The Name of the Wind",
		description: "The legendary Kvothe recounts his youth as a gifted and troubled arcanist.",
		language:    "English",
		price:       1199,
		published:   time.Date(2007, 3, 27, 0, 0, 0, 0, time.UTC),
		isbn:        "978-0756404741",
		authors:     []string{"Patrick Rothfuss"},
		genres:      []string{"Fantasy"},
	},
	{
		title:       "Pride and Prejudice",
		description: "Elizabeth Bennet navigates manners, morality and marriage in Georgian England.",
		language:    "English",
		price:       699,
		published:   time.Date(1813, 1, 28, 0, 0, 0, 0, time.UTC),
		isbn:        "978-0141439518",
		authors:     []string{"Jane Austen"},
		genres:      []string{"Classics", "Romance"},
	},
	{
		title:       "The Hobbit",
		description: "Bilbo Baggins joins thirteen dwarves on a quest to reclaim their mountain home.",
		language:    "English",
		price:       1099,
		published:   time.Date(1937, 9, 21, 0, 0, 0, 0, time.UTC),
		isbn:        "978-0547928227",
		authors:     []string{"J.R.R. Tolkien"},
		genres:      []string{"Fantasy", "Classics"},
	},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := database.NewConnection(database.Config{Path: cfg.Database.Path})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	books := repositories.NewBookRepository(db.DB)
	authors := repositories.NewAuthorRepository(db.DB)
	genres := repositories.NewGenreRepository(db.DB)

	authorIDs := map[string]int{}
	genreIDs := map[string]int{}

	for _, entry := range catalog {
		var aids, gids []int
		for _, name := range entry.authors {
			id, err := ensureAuthor(authors, authorIDs, name)
			if err != nil {
				log.Fatalf("Failed to seed author %q: %v", name, err)
			}
			aids = append(aids, id)
		}
		for _, name := range entry.genres {
			id, err := ensureGenre(genres, genreIDs, name)
			if err != nil {
				log.Fatalf("Failed to seed genre %q: %v", name, err)
			}
			gids = append(gids, id)
		}

		book, err := books.Create(&models.BookCreateRequest{
			Title:           entry.title,
			Description:     entry.description,
			Language:        entry.language,
			Price:           entry.price,
			PublicationDate: entry.published,
			ISBN:            entry.isbn,
			AuthorIDs:       aids,
			GenreIDs:        gids,
		})
		if err != nil {
			log.Fatalf("Failed to seed book %q: %v", entry.title, err)
		}
		fmt.Printf("Seeded %q (id %d)\n", book.Title, book.ID)
	}

	fmt.Printf("Seeded %d books\n", len(catalog))
}

func ensureAuthor(repo *repositories.AuthorRepository, cache map[string]int, name string) (int, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	author, err := repo.Create(&models.AuthorCreateRequest{Name: name})
	if err != nil {
		return 0, err
	}
	cache[name] = author.ID
	return author.ID, nil
}

func ensureGenre(repo *repositories.GenreRepository, cache map[string]int, name string) (int, error) {
	if id, ok := cache[name]; ok {
		return id, nil
	}
	genre, err := repo.Create(&models.GenreCreateRequest{Name: name})
	if err != nil {
		return 0, err
	}
	cache[name] = genre.ID
	return genre.ID, nil
}
