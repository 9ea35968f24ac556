package order

// toOrder maps a wire order into the domain. Status parsing fails loudly so
// schema drift surfaces at the boundary instead of leaking a bogus PENDING.
func toOrder(dto orderDTO) (*Order, error) {
	status, err := ParseStatus(dto.Status)
	if err != nil {
		return nil, err
	}

	products := make([]OrderProduct, 0, len(dto.Products))
	for _, p := range dto.Products {
		products = append(products, OrderProduct{
			ProductID: p.ProductID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  p.Quantity,
		})
	}

	return &Order{
		ID:             dto.ID,
		UserID:         dto.UserID,
		RequestMessage: dto.RequestMessage,
		AdminMessage:   dto.AdminMessage,
		TotalPrice:     dto.TotalPrice,
		Status:         status,
		Products:       products,
		CreatedAt:      dto.CreatedAt,
		UpdatedAt:      dto.UpdatedAt,
	}, nil
}
