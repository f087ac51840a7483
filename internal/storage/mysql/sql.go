package mysql

// -----------------------------------------------------------------------------
// DETAIL READS
// -----------------------------------------------------------------------------

const getAccommodationSQL = `
SELECT id, name, description, address, region, thumbnail_image,
       total_rooms, created_at, updated_at
FROM accommodations
WHERE id = ?
`

// Main image first, then explicit ordering.
const listImagesSQL = `
SELECT id, image_url, is_main, sort_order
FROM accommodation_images
WHERE accommodation_id = ?
ORDER BY is_main DESC, sort_order ASC
`

const listRoomTypesSQL = `
SELECT id, accommodation_id, name, description, max_occupancy, price_per_night
FROM room_types
WHERE accommodation_id = ?
ORDER BY price_per_night ASC
`

// Amenity rows joined with their catalog entry and category; the repo
// appends the single-age suitability condition when requested.
const listAmenitiesSQL = `
SELECT aa.amenity_id, am.name, am.icon, aa.is_available, aa.notes,
       am.age_month_from, am.age_month_to, ac.name
FROM accommodation_amenities aa
INNER JOIN amenities am ON am.id = aa.amenity_id
INNER JOIN amenity_categories ac ON ac.id = am.category_id
WHERE aa.accommodation_id = ?
`

const listAmenitiesAgeCond = `
AND (am.age_month_from IS NULL OR am.age_month_from <= ?)
AND (am.age_month_to IS NULL OR am.age_month_to >= ?)
`

const listAmenitiesOrder = `
ORDER BY ac.id, am.id
`

const reviewStatsSQL = `
SELECT COALESCE(AVG(rating), 0), COUNT(*)
FROM reviews
WHERE accommodation_id = ?
`

// Reviews newest first, with pros/cons/images collected as JSON documents
// per row. JSON_ARRAYAGG yields NULL for empty collections; the shaper
// turns that into empty slices.
const listReviewsSQL = `
SELECT
  r.id, r.accommodation_id, r.user_id, r.rating, r.content,
  r.child_age_months, r.total_people, r.room_type, r.created_at,
  u.name, u.profile_image,
  (SELECT JSON_ARRAYAGG(JSON_OBJECT('id', p.id, 'name', p.name))
     FROM review_pro_links l
     INNER JOIN review_pros p ON p.id = l.pro_id
    WHERE l.review_id = r.id) AS pros,
  (SELECT JSON_ARRAYAGG(JSON_OBJECT('id', c.id, 'name', c.name))
     FROM review_con_links l
     INNER JOIN review_cons c ON c.id = l.con_id
    WHERE l.review_id = r.id) AS cons,
  (SELECT JSON_ARRAYAGG(JSON_OBJECT('id', ri.id, 'imageUrl', ri.image_url, 'sortOrder', ri.sort_order))
     FROM review_images ri
    WHERE ri.review_id = r.id) AS images
FROM reviews r
INNER JOIN users u ON u.id = r.user_id
WHERE r.accommodation_id = ?
ORDER BY r.created_at DESC, r.id DESC
`

// -----------------------------------------------------------------------------
// WISHLISTS
// -----------------------------------------------------------------------------

const listWishlistSQL = `
SELECT
  w.id, w.user_id, w.accommodation_id, w.created_at,
  a.name, a.description, a.address, a.region, a.thumbnail_image,
  COALESCE(AVG(r.rating), 0) AS average_rating,
  COUNT(DISTINCT r.id) AS review_count,
  MIN(rt.price_per_night) AS min_price
FROM wishlists w
INNER JOIN accommodations a ON a.id = w.accommodation_id
LEFT JOIN reviews r ON r.accommodation_id = a.id
LEFT JOIN room_types rt ON rt.accommodation_id = a.id
WHERE w.user_id = ?
GROUP BY w.id, a.id
ORDER BY w.created_at DESC
`

const insertWishlistSQL = `
INSERT INTO wishlists (user_id, accommodation_id) VALUES (?, ?)
`

const getWishlistSQL = `
SELECT id, user_id, accommodation_id, created_at
FROM wishlists
WHERE id = ?
`

const deleteWishlistSQL = `
DELETE FROM wishlists WHERE user_id = ? AND accommodation_id = ?
`

const containsWishlistSQL = `
SELECT 1 FROM wishlists WHERE user_id = ? AND accommodation_id = ?
`

// -----------------------------------------------------------------------------
// MASTER DATA
// -----------------------------------------------------------------------------

const ageMonthRangesSQL = `
SELECT id, label, month_from, month_to
FROM age_months
ORDER BY month_from ASC
`

const amenityCategoriesSQL = `
SELECT id, name FROM amenity_categories ORDER BY id ASC
`

const amenityCatalogSQL = `
SELECT am.id, am.category_id, ac.name, am.name, am.icon,
       am.age_month_from, am.age_month_to
FROM amenities am
INNER JOIN amenity_categories ac ON ac.id = am.category_id
ORDER BY ac.id, am.id
`

const reviewProsSQL = `
SELECT id, category, name FROM review_pros ORDER BY category, id
`

const reviewConsSQL = `
SELECT id, category, name FROM review_cons ORDER BY category, id
`

// -----------------------------------------------------------------------------
// FIXTURE WRITES (seeder only; listings are owned by the listing subsystem)
// -----------------------------------------------------------------------------

const upsertAccommodationSQL = `
INSERT INTO accommodations
  (id, name, description, address, region, thumbnail_image, total_rooms)
VALUES (?, ?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  description     = VALUES(description),
  address         = VALUES(address),
  region          = VALUES(region),
  thumbnail_image = VALUES(thumbnail_image),
  total_rooms     = VALUES(total_rooms),
  updated_at      = CURRENT_TIMESTAMP
`

const upsertRoomTypeSQL = `
INSERT INTO room_types
  (id, accommodation_id, name, description, max_occupancy, price_per_night)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  name            = VALUES(name),
  description     = VALUES(description),
  max_occupancy   = VALUES(max_occupancy),
  price_per_night = VALUES(price_per_night)
`

const upsertImageSQL = `
INSERT INTO accommodation_images
  (id, accommodation_id, image_url, is_main, sort_order)
VALUES (?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  image_url  = VALUES(image_url),
  is_main    = VALUES(is_main),
  sort_order = VALUES(sort_order)
`

const upsertCategorySQL = `
INSERT INTO amenity_categories (id, name) VALUES (?, ?)
ON DUPLICATE KEY UPDATE name = VALUES(name)
`

const upsertAmenitySQL = `
INSERT INTO amenities (id, category_id, name, icon, age_month_from, age_month_to)
VALUES (?, ?, ?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  category_id    = VALUES(category_id),
  name           = VALUES(name),
  icon           = VALUES(icon),
  age_month_from = VALUES(age_month_from),
  age_month_to   = VALUES(age_month_to)
`

const linkAmenitySQL = `
INSERT INTO accommodation_amenities (accommodation_id, amenity_id, is_available, notes)
VALUES (?, ?, ?, ?)
ON DUPLICATE KEY UPDATE
  is_available = VALUES(is_available),
  notes        = VALUES(notes)
`
