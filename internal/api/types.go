package api

// User is the authenticated account record returned by the session endpoints.
type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	FullName     string `json:"full_name"`
	Role         string `json:"role"`
	IsActive     bool   `json:"is_active"`
	CustomerCode string `json:"customer_code,omitempty"`
	StaffCode    string `json:"staff_code,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// Roles recognized by the backend.
const (
	RoleCustomer = "customer"
	RoleStaff    = "staff"
	RoleAdmin    = "admin"
)

// Book is one catalog entry.
type Book struct {
	ID          int     `json:"id"`
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	Publisher   string  `json:"publisher,omitempty"`
	PublishDate string  `json:"publish_date,omitempty"`
	Distributor string  `json:"distributor,omitempty"`
	Dimensions  string  `json:"dimensions,omitempty"`
	Pages       int     `json:"pages,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
	CreatedAt   string  `json:"created_at"`
	UpdatedAt   string  `json:"updated_at"`
}

// CartItem is one server-side cart line. The line id is server-assigned and
// unique per cart; Book is a snapshot of the referenced catalog entry.
type CartItem struct {
	ID        int    `json:"id"`
	UserID    int    `json:"user_id"`
	BookID    int    `json:"book_id"`
	Book      Book   `json:"book"`
	Quantity  int    `json:"quantity"`
	CreatedAt string `json:"created_at"`
}

// Order is one placed order with its line items.
type Order struct {
	ID              int         `json:"id"`
	UserID          int         `json:"user_id"`
	TotalAmount     float64     `json:"total_amount"`
	Status          string      `json:"status"`
	PaymentStatus   string      `json:"payment_status"`
	ShippingAddress string      `json:"shipping_address"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
	Items           []OrderItem `json:"items"`
}

// Order lifecycle states.
const (
	OrderPending   = "pending"
	OrderConfirmed = "confirmed"
	OrderCompleted = "completed"
	OrderCancelled = "cancelled"
)

// OrderItem is one line of a placed order, with the unit price captured at
// purchase time.
type OrderItem struct {
	ID       int     `json:"id"`
	OrderID  int     `json:"order_id"`
	BookID   int     `json:"book_id"`
	Book     Book    `json:"book"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

// Banner is one storefront banner slot entry.
type Banner struct {
	ID        int    `json:"id"`
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url,omitempty"`
	Position  string `json:"position"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// Banner positions.
const (
	BannerMain       = "main"
	BannerSideTop    = "side_top"
	BannerSideBottom = "side_bottom"
)

// RegisterInput carries the fields for account creation.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// ProfilePatch carries the mutable profile fields. Nil fields are omitted and
// left unchanged server-side.
type ProfilePatch struct {
	FullName *string `json:"full_name,omitempty"`
	Email    *string `json:"email,omitempty"`
}

// BookInput carries the writable catalog fields for admin book CRUD.
type BookInput struct {
	Title       string  `json:"title"`
	Author      string  `json:"author"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Stock       int     `json:"stock"`
	ImageURL    string  `json:"image_url"`
	Publisher   string  `json:"publisher,omitempty"`
	PublishDate string  `json:"publish_date,omitempty"`
	Distributor string  `json:"distributor,omitempty"`
	Dimensions  string  `json:"dimensions,omitempty"`
	Pages       int     `json:"pages,omitempty"`
	Weight      float64 `json:"weight,omitempty"`
}

// BannerInput carries the writable banner fields for admin banner CRUD.
type BannerInput struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url,omitempty"`
	Position  string `json:"position"`
	IsActive  bool   `json:"is_active"`
	SortOrder int    `json:"sort_order"`
}

// BookListOptions filters and pages the public catalog listing.
type BookListOptions struct {
	Page     int
	PerPage  int
	Search   string
	Category string
	Author   string
}

// BookPage is one page of the catalog listing.
type BookPage struct {
	Books   []Book `json:"books"`
	Total   int    `json:"total"`
	Page    int    `json:"page"`
	PerPage int    `json:"per_page"`
	Pages   int    `json:"pages"`
}

// BannerPage is one page of the admin banner listing.
type BannerPage struct {
	Banners []Banner `json:"banners"`
	Total   int      `json:"total"`
	Page    int      `json:"page"`
	PerPage int      `json:"per_page"`
	Pages   int      `json:"pages"`
}

// OrderStatusPatch updates order and payment status from the admin console.
// Nil fields are left unchanged.
type OrderStatusPatch struct {
	Status        *string `json:"status,omitempty"`
	PaymentStatus *string `json:"payment_status,omitempty"`
}

// TopBook is one entry of the best-seller statistics.
type TopBook struct {
	ID        int     `json:"id"`
	Title     string  `json:"title"`
	Author    string  `json:"author"`
	TotalSold int     `json:"total_sold"`
	Revenue   float64 `json:"revenue"`
}

// Statistics is the admin dashboard aggregate.
type Statistics struct {
	TotalUsers    int     `json:"total_users"`
	TotalBooks    int     `json:"total_books"`
	TotalOrders   int     `json:"total_orders"`
	TotalRevenue  float64 `json:"total_revenue"`
	PendingOrders int     `json:"pending_orders"`
	TopBooks      []TopBook `json:"top_books"`
	RecentOrders  []Order   `json:"recent_orders"`
}
