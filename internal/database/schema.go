package database

// Schema is the relational schema for the ordering backend. Cart and
// order children cascade on delete; user_coupon_usage keeps one row per
// (user, coupon) pair.
const Schema = `
	CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		password VARCHAR(255) NOT NULL,
		role VARCHAR(20) NOT NULL DEFAULT 'user',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS pizzas (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		image VARCHAR(255) NOT NULL DEFAULT '',
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS toppings (
		id BIGSERIAL PRIMARY KEY,
		name VARCHAR(255) NOT NULL UNIQUE,
		price NUMERIC(10,2) NOT NULL CHECK (price >= 0),
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS carts (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		total_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		discounted_price NUMERIC(10,2) NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_carts_user_id ON carts(user_id);

	CREATE TABLE IF NOT EXISTS cart_items (
		id BIGSERIAL PRIMARY KEY,
		cart_id BIGINT NOT NULL REFERENCES carts(id) ON DELETE CASCADE,
		pizza_id BIGINT NOT NULL REFERENCES pizzas(id),
		quantity INT NOT NULL CHECK (quantity > 0)
	);
	CREATE INDEX IF NOT EXISTS idx_cart_items_cart_id ON cart_items(cart_id);

	CREATE TABLE IF NOT EXISTS cart_toppings (
		id BIGSERIAL PRIMARY KEY,
		cart_item_id BIGINT NOT NULL REFERENCES cart_items(id) ON DELETE CASCADE,
		topping_id BIGINT NOT NULL REFERENCES toppings(id),
		quantity INT NOT NULL CHECK (quantity > 0)
	);
	CREATE INDEX IF NOT EXISTS idx_cart_toppings_cart_item_id ON cart_toppings(cart_item_id);

	CREATE TABLE IF NOT EXISTS orders (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		status VARCHAR(20) NOT NULL DEFAULT 'Received',
		total_price NUMERIC(10,2) NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);

	CREATE TABLE IF NOT EXISTS order_items (
		id BIGSERIAL PRIMARY KEY,
		order_id BIGINT NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
		pizza_id BIGINT NOT NULL REFERENCES pizzas(id),
		quantity INT NOT NULL CHECK (quantity > 0)
	);
	CREATE INDEX IF NOT EXISTS idx_order_items_order_id ON order_items(order_id);

	CREATE TABLE IF NOT EXISTS order_toppings (
		id BIGSERIAL PRIMARY KEY,
		order_item_id BIGINT NOT NULL REFERENCES order_items(id) ON DELETE CASCADE,
		topping_id BIGINT NOT NULL REFERENCES toppings(id),
		quantity INT NOT NULL CHECK (quantity > 0)
	);
	CREATE INDEX IF NOT EXISTS idx_order_toppings_order_item_id ON order_toppings(order_item_id);

	CREATE TABLE IF NOT EXISTS coupons (
		id BIGSERIAL PRIMARY KEY,
		code VARCHAR(50) NOT NULL UNIQUE,
		discount NUMERIC(5,2) NOT NULL CHECK (discount >= 0),
		expiration_date DATE NOT NULL,
		usage_limit INT NOT NULL DEFAULT 1,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS user_coupon_usage (
		id BIGSERIAL PRIMARY KEY,
		user_id BIGINT NOT NULL REFERENCES users(id),
		coupon_id BIGINT NOT NULL REFERENCES coupons(id),
		used BOOLEAN NOT NULL DEFAULT FALSE,
		used_at TIMESTAMPTZ,
		UNIQUE (user_id, coupon_id)
	);
	CREATE INDEX IF NOT EXISTS idx_user_coupon_usage_user_id ON user_coupon_usage(user_id);
`
