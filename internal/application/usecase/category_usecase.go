package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// DeletePolicy qué hacer al eliminar una categoría que todavía tiene productos.
type DeletePolicy string

const (
	// DeleteReject rechaza la eliminación con ErrCategoryNotEmpty.
	DeleteReject DeletePolicy = "reject"
	// DeleteCascade elimina los productos de la categoría en la misma transacción.
	DeleteCascade DeletePolicy = "cascade"
)

// ParseDeletePolicy interpreta el valor de configuración; vacío equivale a reject.
func ParseDeletePolicy(s string) (DeletePolicy, error) {
	switch DeletePolicy(s) {
	case "", DeleteReject:
		return DeleteReject, nil
	case DeleteCascade:
		return DeleteCascade, nil
	default:
		return "", fmt.Errorf("política de eliminación de categorías desconocida: %q", s)
	}
}

// CategoryUseCase casos de uso para categorías.
type CategoryUseCase struct {
	repos    repository.Set
	txRunner ports.TxRunner
	images   imageStore
	policy   DeletePolicy
	log      *logger.Logger
}

// NewCategoryUseCase construye el caso de uso.
func NewCategoryUseCase(
	repos repository.Set,
	txRunner ports.TxRunner,
	storage ports.FileStorage,
	policy DeletePolicy,
	log *logger.Logger,
) *CategoryUseCase {
	if policy == "" {
		policy = DeleteReject
	}
	return &CategoryUseCase{
		repos:    repos,
		txRunner: txRunner,
		images:   imageStore{storage: storage, log: log},
		policy:   policy,
		log:      log,
	}
}

// Create crea una categoría vacía. La imagen es opcional.
func (uc *CategoryUseCase) Create(ctx context.Context, in dto.CreateCategoryRequest, image *dto.FileUpload) (*dto.CategoryResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	category := &entity.Category{
		ID:         uuid.New().String(),
		Name:       in.Name,
		Image:      path,
		ProductIDs: []string{},
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := uc.repos.Categories.Create(ctx, category); err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	return dto.NewCategoryResponse(category, nil), nil
}

// List devuelve las categorías por nombre con sus productos poblados.
func (uc *CategoryUseCase) List(ctx context.Context) ([]*dto.CategoryResponse, error) {
	categories, err := uc.repos.Categories.List(ctx)
	if err != nil {
		return nil, err
	}
	products, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*entity.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	out := make([]*dto.CategoryResponse, 0, len(categories))
	for _, c := range categories {
		out = append(out, dto.NewCategoryResponse(c, pick(c.ProductIDs, byID)))
	}
	return out, nil
}

// GetByID devuelve la categoría con sus productos.
func (uc *CategoryUseCase) GetByID(ctx context.Context, id string) (*dto.CategoryResponse, error) {
	category, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	products, err := uc.repos.Products.ListByCategory(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.NewCategoryResponse(category, products), nil
}

// Rename cambia el nombre; no toca la lista de productos.
func (uc *CategoryUseCase) Rename(ctx context.Context, id string, in dto.UpdateCategoryRequest) (*dto.CategoryResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	category, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Categories.Rename(ctx, id, in.Name); err != nil {
		return nil, err
	}
	category.Name = in.Name
	category.UpdatedAt = time.Now()
	return dto.NewCategoryResponse(category, nil), nil
}

// UpdateImage reemplaza la imagen; la anterior se elimina sin bloquear la operación.
func (uc *CategoryUseCase) UpdateImage(ctx context.Context, id string, image *dto.FileUpload) (*dto.CategoryResponse, error) {
	if image == nil {
		return nil, domain.NewValidationError("image es requerida")
	}
	category, err := uc.byID(ctx, id)
	if err != nil {
		return nil, err
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Categories.UpdateImage(ctx, id, path); err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	old := category.Image
	category.Image = path
	uc.images.discard(ctx, old)
	return dto.NewCategoryResponse(category, nil), nil
}

// Delete elimina la categoría según la política configurada.
// Con reject, una categoría con productos devuelve ErrCategoryNotEmpty; con cascade
// los productos se eliminan en la misma transacción y luego se borran las imágenes.
func (uc *CategoryUseCase) Delete(ctx context.Context, id string) error {
	var images []string
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		images = images[:0]
		category, err := repos.Categories.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrCategoryNotFound
		}
		products, err := repos.Products.ListByCategory(ctx, id)
		if err != nil {
			return err
		}
		if len(products) > 0 && uc.policy != DeleteCascade {
			return domain.NewCategoryNotEmptyError(category.Name, len(products))
		}
		for _, p := range products {
			if err := repos.Products.Delete(ctx, p.ID); err != nil {
				return fmt.Errorf("eliminar producto %s: %w", p.ID, err)
			}
			images = append(images, p.Image)
		}
		if err := repos.Categories.Delete(ctx, id); err != nil {
			return err
		}
		images = append(images, category.Image)
		return nil
	})
	if err != nil {
		return err
	}
	for _, path := range images {
		uc.images.discard(ctx, path)
	}
	if len(images) > 1 {
		uc.log.Info().Str("category_id", id).Int("products", len(images)-1).Msg("categoría eliminada en cascada")
	}
	return nil
}

func (uc *CategoryUseCase) byID(ctx context.Context, id string) (*entity.Category, error) {
	category, err := uc.repos.Categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	return category, nil
}

// pick devuelve los productos en el orden de ids; ignora referencias que ya no existen.
func pick(ids []string, byID map[string]*entity.Product) []*entity.Product {
	out := make([]*entity.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out
}
