package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"place-trainer/internal/config"
	"place-trainer/internal/db"
	"place-trainer/internal/domain"
	"place-trainer/internal/features"
	"place-trainer/internal/notify"
	"place-trainer/internal/repository"
	"place-trainer/internal/service"
	"place-trainer/internal/trainer"
)

func main() {
	ctx := context.Background()
	reader := bufio.NewReader(os.Stdin)

	_ = godotenv.Load()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal(err)
	}

	logger := zap.NewExample()
	defer logger.Sync()

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer pool.Close()

	placeRepo := repository.NewPgPlaceRepository(pool)
	modelRepo := repository.NewPgModelRepository(pool)
	appConfigRepo := repository.NewPgAppConfigRepository(pool)
	sampleRepo := repository.NewPgSampleRepository(pool)
	notifier := notify.NewReloadNotifier(logger, appConfigRepo, nil)
	stubTrainer := trainer.NewStubTrainer(logger, sampleRepo, cfg.TrainingDelay)

	retrainSvc := service.NewRetrainService(logger, placeRepo, modelRepo, stubTrainer, notifier, cfg.RetrainThreshold)
	statsSvc := service.NewStatsService(logger, placeRepo, modelRepo, cfg.StatsRetrainThreshold)
	verificationSvc := service.NewVerificationService(logger, placeRepo, cfg.AutoVerifyLimit)
	jwtSvc := service.NewJWTService(cfg.JWTSecret, cfg.JWTIssuer, 24*time.Hour)

	for {
		fmt.Println("\n===== Place Trainer Admin =====")
		fmt.Println("[1] Ver estadisticas del modelo")
		fmt.Println("[2] Listar lugares pendientes")
		fmt.Println("[3] Reentrenar ahora")
		fmt.Println("[4] Verificar lugar")
		fmt.Println("[5] Ejecutar auto-verificacion")
		fmt.Println("[6] Emitir token de administrador")
		fmt.Println("[7] Ver senal de recarga")
		fmt.Println("[8] Salir")
		fmt.Print("Selecciona una opcion: ")

		line, _ := reader.ReadString('\n')
		switch strings.TrimSpace(line) {
		case "1":
			printStats(ctx, statsSvc, sampleRepo)
		case "2":
			if err := listPendingFlow(ctx, placeRepo); err != nil {
				fmt.Printf("Error listando pendientes: %v\n", err)
			}
		case "3":
			res, err := retrainSvc.ManualRetrain(ctx)
			if err != nil {
				fmt.Printf("Error reentrenando: %v\n", err)
				continue
			}
			fmt.Println(res.Message)
		case "4":
			if err := verifyFlow(ctx, reader, placeRepo, verificationSvc); err != nil {
				fmt.Printf("Error verificando: %v\n", err)
			}
		case "5":
			n, err := verificationSvc.AutoVerify(ctx)
			if err != nil {
				fmt.Printf("Error en auto-verificacion: %v\n", err)
				continue
			}
			fmt.Printf("Lugares aprobados: %d\n", n)
		case "6":
			if err := issueTokenFlow(reader, jwtSvc); err != nil {
				fmt.Printf("Error emitiendo token: %v\n", err)
			}
		case "7":
			if err := reloadSignalFlow(ctx, appConfigRepo); err != nil {
				fmt.Printf("Error leyendo senal: %v\n", err)
			}
		case "8":
			return
		default:
			fmt.Println("Opcion invalida.")
		}
	}
}

func printStats(ctx context.Context, statsSvc *service.StatsService, samples repository.SampleRepository) {
	stats, err := statsSvc.GetModelStats(ctx)
	if err != nil {
		fmt.Printf("Error obteniendo estadisticas: %v\n", err)
		return
	}
	fmt.Printf("Total: %d | Pendientes: %d | Entrenados: %d\n", stats.TotalPlaces, stats.PendingPlaces, stats.TrainedPlaces)
	if stats.ModelVersion != nil {
		fmt.Printf("Modelo v%d actualizado %s\n", *stats.ModelVersion, stats.LastModelUpdate.Format(time.RFC3339))
		if n, err := samples.CountByVersion(ctx, *stats.ModelVersion); err == nil {
			fmt.Printf("Muestras guardadas para esta version: %d\n", n)
		}
	} else {
		fmt.Println("Todavia no hay modelo entrenado.")
	}
	fmt.Printf("Necesita reentrenar: %t\n", stats.NeedsRetraining)
}

func listPendingFlow(ctx context.Context, places repository.PlaceRepository) error {
	pending, err := places.ListPending(ctx)
	if err != nil {
		return err
	}
	if len(pending) == 0 {
		fmt.Println("No hay lugares pendientes.")
		return nil
	}
	for _, p := range pending {
		status := "sin verificar"
		if p.Verified != nil {
			status = fmt.Sprintf("verified=%t", *p.Verified)
		}
		fmt.Printf("- %s (%s) tipo=%q label=%d %s\n", p.Name, p.ID, p.Type, features.LabelFor(p.Type), status)
	}
	return nil
}

func verifyFlow(ctx context.Context, reader *bufio.Reader, places repository.PlaceRepository, verificationSvc *service.VerificationService) error {
	fmt.Print("ID del lugar: ")
	placeID, _ := reader.ReadString('\n')
	placeID = strings.TrimSpace(placeID)

	place, err := places.GetByID(ctx, placeID)
	if err != nil {
		return fmt.Errorf("buscar lugar: %w", err)
	}
	fmt.Printf("%s | tipo=%q | costo=%v | actividades=%v\n%s\n", place.Name, place.Type, place.CostOr(features.DefaultCost), place.Activities, place.Caption)
	fmt.Printf("Califica para auto-verificacion: %t\n", service.QualifiesForAutoVerify(place))

	fmt.Print("Aprobar? [s/N]: ")
	answer, _ := reader.ReadString('\n')
	fmt.Print("Motivo (opcional): ")
	reason, _ := reader.ReadString('\n')

	res, err := verificationSvc.VerifyPlace(ctx, &service.Identity{UID: "admin-cli"}, service.VerifyPlaceInput{
		PlaceID:  placeID,
		Approved: strings.EqualFold(strings.TrimSpace(answer), "s"),
		Reason:   strings.TrimSpace(reason),
	})
	if err != nil {
		return err
	}
	fmt.Println(res.Message)
	return nil
}

func issueTokenFlow(reader *bufio.Reader, jwtSvc *service.JWTService) error {
	fmt.Print("UID del administrador: ")
	uid, _ := reader.ReadString('\n')
	token, err := jwtSvc.Issue(strings.TrimSpace(uid))
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}

func reloadSignalFlow(ctx context.Context, appConfig repository.AppConfigRepository) error {
	signal, err := appConfig.GetReloadSignal(ctx, domain.AppConfigModelID)
	if errors.Is(err, pgx.ErrNoRows) {
		fmt.Println("Todavia no se emitio ninguna senal de recarga.")
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Recargar: %t | version %d | %s\n",
		signal.ShouldReload, signal.Version, signal.LastUpdate.Format(time.RFC3339))
	return nil
}
