package main

import (
	"context"
	"fmt"
	"os"

	"github.com/marcelsud/book-tracker/book"
	"github.com/marcelsud/book-tracker/config"
	"github.com/marcelsud/book-tracker/internal/storage"
)

/*
CLI - Exemplo de uso do book.Service contra o store configurado

Este CLI demonstra:
- Como usar Config para escolher o store (STORE_DRIVER=mongo|postgres|sqlite|redis)
- Como usar o book.Service
- Como executar operações CRUD, incluindo a atualização parcial e o clamp de páginas lidas

Execute com:
  go run ./cmd/cli

Ou, sem nenhum servidor de banco:
  STORE_DRIVER=sqlite go run ./cmd/cli
*/

func ptr[T any](v T) *T {
	return &v
}

func main() {
	if err := run(); err != nil {
		fmt.Printf("❌ %v\n", err)
		os.Exit(1)
	}
	fmt.Println("\n✅ CLI completed successfully!")
}

func run() error {
	// 1. Carregar configuração
	cfg, err := config.GetConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx := context.Background()

	// 2. Abrir o store
	fmt.Printf("🔗 Opening %s store...\n", cfg.StoreDriver)
	repo, err := storage.Open(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close(ctx)

	// 3. Criar service
	s := book.NewService(repo)

	// 4. Criar um livro de exemplo
	fmt.Println("\n📝 Creating a new book...")
	created, err := s.Create(ctx, book.Fields{
		Title:         ptr("Neuromancer"),
		Author:        ptr("William Gibson"),
		SuggestedBy:   ptr("Case"),
		NumberOfPages: ptr(271),
		Price:         ptr(10.99),
		PagesRead:     ptr(40),
		Status:        ptr(book.CurrentlyReading.String()),
		Format:        ptr(book.Print.String()),
	})
	if err != nil {
		return fmt.Errorf("creating book: %w", err)
	}
	fmt.Println("✅ Book created successfully!")
	printBook(created)

	// 5. Listar todos os livros
	fmt.Println("\n📚 All books:")
	if err := printAll(ctx, s); err != nil {
		return err
	}

	// 6. Atualizar: páginas lidas acima do total são limitadas ao total
	fmt.Printf("\n✏️  Updating book %s (pagesRead=999)...\n", created.ID)
	updated, err := s.Update(ctx, created.ID, book.Fields{
		PagesRead: ptr(999),
		Status:    ptr(book.Read.String()),
	})
	if err != nil {
		return fmt.Errorf("updating book: %w", err)
	}
	printBook(updated)

	// 7. Estatísticas
	st, err := s.Stats(ctx)
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}
	fmt.Printf("\n📊 %d book(s), %d finished, %d pages read\n", st.TotalBooks, st.TotalBooksRead, st.TotalPages)

	// 8. Deletar o livro
	fmt.Printf("\n🗑️  Deleting book %s...\n", created.ID)
	if err := s.Delete(ctx, created.ID); err != nil {
		return fmt.Errorf("deleting book: %w", err)
	}
	fmt.Println("✅ Book deleted!")

	// 9. Listar novamente
	fmt.Println("\n📚 Books after deletion:")
	return printAll(ctx, s)
}

func printAll(ctx context.Context, s book.UseCase) error {
	books, err := s.List(ctx)
	if err != nil {
		return fmt.Errorf("listing books: %w", err)
	}
	if len(books) == 0 {
		fmt.Println("   (no books yet)")
	}
	for _, b := range books {
		fmt.Printf("   [%s] %s by %s (%s, %d%%)\n", b.ID, b.Title, b.Author, b.Status, b.ProgressPercent())
	}
	return nil
}

func printBook(b book.Book) {
	fmt.Printf("   ID:       %s\n", b.ID)
	fmt.Printf("   Title:    %s\n", b.Title)
	fmt.Printf("   Author:   %s\n", b.Author)
	fmt.Printf("   Status:   %s\n", b.Status)
	fmt.Printf("   Format:   %s\n", b.Format)
	fmt.Printf("   Progress: %d/%d (%d%%)\n", b.PagesRead, b.NumberOfPages, b.ProgressPercent())
	fmt.Printf("   Finished: %t\n", b.Finished)
}
