package driver

// Storage is the flash-backed store driver surface (nvs_flash shaped).
type Storage interface {
	FlashInit() Status
	FlashErase() Status
}
