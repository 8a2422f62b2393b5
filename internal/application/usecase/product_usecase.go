package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/tienda-api/internal/application/dto"
	"github.com/jhoicas/tienda-api/internal/application/ports"
	"github.com/jhoicas/tienda-api/internal/application/relations"
	"github.com/jhoicas/tienda-api/internal/domain"
	"github.com/jhoicas/tienda-api/internal/domain/entity"
	"github.com/jhoicas/tienda-api/internal/domain/repository"
	"github.com/jhoicas/tienda-api/pkg/logger"
)

// ProductUseCase casos de uso CRUD para productos. La categoría solo cambia vía el mantenedor de relaciones.
type ProductUseCase struct {
	repos     repository.Set
	txRunner  ports.TxRunner
	relations *relations.Maintainer
	images    imageStore
}

// NewProductUseCase construye el caso de uso.
func NewProductUseCase(
	repos repository.Set,
	txRunner ports.TxRunner,
	rel *relations.Maintainer,
	storage ports.FileStorage,
	log *logger.Logger,
) *ProductUseCase {
	return &ProductUseCase{
		repos:     repos,
		txRunner:  txRunner,
		relations: rel,
		images:    imageStore{storage: storage, log: log},
	}
}

// Create crea el producto y lo enlaza a su categoría en la misma transacción.
func (uc *ProductUseCase) Create(ctx context.Context, in dto.CreateProductRequest, image *dto.FileUpload) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	product := &entity.Product{
		ID:            uuid.New().String(),
		Name:          in.Name,
		Image:         path,
		Price:         in.Price,
		StockQuantity: in.StockQuantity,
		Description:   in.Description,
		CategoryID:    in.CategoryID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	err = uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		category, err := repos.Categories.GetByID(ctx, in.CategoryID)
		if err != nil {
			return err
		}
		if category == nil {
			return domain.ErrCategoryNotFound
		}
		if err := repos.Products.Create(ctx, product); err != nil {
			return err
		}
		return uc.relations.LinkProductToCategoryInTx(ctx, repos, product.ID, in.CategoryID)
	})
	if err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// GetByID obtiene un producto por ID.
func (uc *ProductUseCase) GetByID(ctx context.Context, id string) (*dto.ProductResponse, error) {
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	return dto.NewProductResponse(product), nil
}

// List lista todos los productos por precio ascendente.
func (uc *ProductUseCase) List(ctx context.Context) ([]*dto.ProductResponse, error) {
	list, err := uc.repos.Products.List(ctx)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// ListByCategory lista los productos de una categoría por precio ascendente.
func (uc *ProductUseCase) ListByCategory(ctx context.Context, categoryID string) ([]*dto.ProductResponse, error) {
	category, err := uc.repos.Categories.GetByID(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, domain.ErrCategoryNotFound
	}
	list, err := uc.repos.Products.ListByCategory(ctx, categoryID)
	if err != nil {
		return nil, err
	}
	return toProductResponses(list), nil
}

// Update actualiza un producto. Un categoryId distinto al actual mueve el producto de categoría
// en la misma transacción que el resto de los cambios.
func (uc *ProductUseCase) Update(ctx context.Context, id string, in dto.UpdateProductRequest) (*dto.ProductResponse, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	var product *entity.Product
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		var err error
		product, err = repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		if in.Name != nil {
			product.Name = *in.Name
		}
		if in.Price != nil {
			product.Price = *in.Price
		}
		if in.StockQuantity != nil {
			product.StockQuantity = *in.StockQuantity
		}
		if in.Description != nil {
			product.Description = *in.Description
		}
		product.UpdatedAt = time.Now()
		if err := repos.Products.Update(ctx, product); err != nil {
			return err
		}
		if in.CategoryID != nil && *in.CategoryID != product.CategoryID {
			if err := uc.relations.MoveProductToCategoryInTx(ctx, repos, id, product.CategoryID, *in.CategoryID); err != nil {
				return err
			}
			product.CategoryID = *in.CategoryID
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto.NewProductResponse(product), nil
}

// UpdateImage reemplaza la imagen del producto; la anterior se elimina sin bloquear la operación.
func (uc *ProductUseCase) UpdateImage(ctx context.Context, id string, image *dto.FileUpload) (*dto.ProductResponse, error) {
	if image == nil {
		return nil, domain.NewValidationError("image es requerida")
	}
	product, err := uc.repos.Products.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, domain.ErrProductNotFound
	}
	path, err := uc.images.put(ctx, image)
	if err != nil {
		return nil, err
	}
	if err := uc.repos.Products.UpdateImage(ctx, id, path); err != nil {
		uc.images.discard(ctx, path)
		return nil, err
	}
	old := product.Image
	product.Image = path
	uc.images.discard(ctx, old)
	return dto.NewProductResponse(product), nil
}

// Delete quita el producto de su categoría y lo elimina en una transacción; luego elimina su imagen.
func (uc *ProductUseCase) Delete(ctx context.Context, id string) error {
	var image string
	err := uc.txRunner.Run(ctx, func(ctx context.Context, repos repository.Set) error {
		product, err := repos.Products.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if product == nil {
			return domain.ErrProductNotFound
		}
		image = product.Image
		return uc.relations.UnlinkProductOnDeleteInTx(ctx, repos, product.ID, product.CategoryID)
	})
	if err != nil {
		return err
	}
	uc.images.discard(ctx, image)
	return nil
}

func toProductResponses(list []*entity.Product) []*dto.ProductResponse {
	out := make([]*dto.ProductResponse, 0, len(list))
	for _, p := range list {
		out = append(out, dto.NewProductResponse(p))
	}
	return out
}
